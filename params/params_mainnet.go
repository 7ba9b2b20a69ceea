// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"time"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
)

// mainNetGenesisHash is the hash of the first block in the block chain for the
// main network.
var mainNetGenesisHash = hash.MustHexToDecodedHash("6ca267d1b8a1bed2df1ebe1d8e2e6bc34cfaa0b0e7ba6f3c3b1aa0ed2cde0a1e")

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:                    "mainnet",
	Net:                     types.Mainnet,
	DefaultPort:             "21337",
	CheckpointZeroTimestamp: 1602666000,
	CheckpointsPeriod:       time.Second * 45,
	GenesisHash:             mainNetGenesisHash,
}
