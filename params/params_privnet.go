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

// PrivNetParams defines the network parameters for the private test network.
// The genesis hash is all zeros and the clock constants are expected to be
// overridden from the command line.
var PrivNetParams = Params{
	Name:                    "privnet",
	Net:                     types.Privnet,
	DefaultPort:             "21339",
	CheckpointZeroTimestamp: 1546300800,
	CheckpointsPeriod:       time.Second * 10,
	GenesisHash:             hash.ZeroHash,
	TxHashType:              hash.Blake2b_256,
}
