// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

import (
	"errors"
	"time"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
)

// ErrUnknownNet describes an error where the network name is not one of the
// known networks.
var ErrUnknownNet = errors.New("unknown network")

// Params defines a witnet network by its parameters.  These parameters may be
// used by applications to differentiate one network from another.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net identifies the network environment stored in the chain info.
	Net types.Environment

	// DefaultPort defines the default peer-to-peer tcp port for the network.
	DefaultPort string

	// CheckpointZeroTimestamp is the unix time at which epoch 0 starts.
	CheckpointZeroTimestamp int64

	// CheckpointsPeriod is the duration of every epoch.
	CheckpointsPeriod time.Duration

	// GenesisHash is the hash the chain head points at before any block
	// has been consolidated.
	GenesisHash hash.Hash

	// TxHashType is the digest transactions are identified by.  Block
	// identity is always sha256.
	TxHashType hash.HashType
}

// ConsensusConstants returns the consensus constants persisted in the chain
// info of a node on this network.
func (p *Params) ConsensusConstants() types.ConsensusConstants {
	return types.ConsensusConstants{
		CheckpointZeroTimestamp: p.CheckpointZeroTimestamp,
		CheckpointsPeriod:       uint16(p.CheckpointsPeriod / time.Second),
		GenesisHash:             p.GenesisHash,
	}
}

// GenesisChainInfo returns the chain info a fresh node on this network starts
// with.
func (p *Params) GenesisChainInfo() types.ChainInfo {
	return types.NewGenesisChainInfo(p.Net, p.ConsensusConstants())
}

// ByName returns the parameters of the named network.
func ByName(name string) (*Params, error) {
	for _, p := range []*Params{&MainNetParams, &TestNetParams, &PrivNetParams} {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrUnknownNet
}
