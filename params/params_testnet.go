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

// testNetGenesisHash is the hash of the first block in the block chain for the
// test network.
var testNetGenesisHash = hash.MustHexToDecodedHash("c2e5a5d0dd0f40b4e5c1e3bc8f3d2a47d8c7a1a4e5b3b8f6d0a6e5c1f2b3a4d5")

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:                    "testnet",
	Net:                     types.Testnet,
	DefaultPort:             "21338",
	CheckpointZeroTimestamp: 1546427376,
	CheckpointsPeriod:       time.Second * 90,
	GenesisHash:             testNetGenesisHash,
}
