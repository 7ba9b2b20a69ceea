// Copyright 2017-2018 The qitmeer developers

package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mestorlx/witnet-rust/common/hash"
	s "github.com/mestorlx/witnet-rust/core/serialization"
)

// Environment identifies the network a node runs on.
type Environment uint8

const (
	Mainnet Environment = iota
	Testnet
	Privnet
)

var environmentStrings = map[Environment]string{
	Mainnet: "mainnet",
	Testnet: "testnet",
	Privnet: "privnet",
}

func (e Environment) String() string {
	if s, ok := environmentStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Environment (%d)", uint8(e))
}

// ConsensusConstants are fixed for the lifetime of a network.
type ConsensusConstants struct {
	// Unix timestamp at which epoch 0 starts.
	CheckpointZeroTimestamp int64

	// Duration of an epoch in seconds.
	CheckpointsPeriod uint16

	// Hash the genesis chain head points at.
	GenesisHash hash.Hash
}

func (c *ConsensusConstants) Serialize(w io.Writer) error {
	return s.WriteElements(w, c.CheckpointZeroTimestamp, c.CheckpointsPeriod, &c.GenesisHash)
}

func (c *ConsensusConstants) Deserialize(r io.Reader) error {
	return s.ReadElements(r, &c.CheckpointZeroTimestamp, &c.CheckpointsPeriod, &c.GenesisHash)
}

// ChainInfo is the persisted chain head metadata.
type ChainInfo struct {
	Environment        Environment
	ConsensusConstants ConsensusConstants

	// HighestBlockCheckpoint is the tip beacon: the tip epoch and the hash
	// of the tip block, which is the previous block of whatever comes
	// next.
	HighestBlockCheckpoint CheckpointBeacon
}

// NewGenesisChainInfo returns the chain head of a node that has not seen any
// block yet.
func NewGenesisChainInfo(env Environment, consts ConsensusConstants) ChainInfo {
	return ChainInfo{
		Environment:        env,
		ConsensusConstants: consts,
		HighestBlockCheckpoint: CheckpointBeacon{
			Checkpoint:    0,
			HashPrevBlock: consts.GenesisHash,
		},
	}
}

// TipEpoch returns the epoch of the current tip.
func (c *ChainInfo) TipEpoch() Epoch {
	return c.HighestBlockCheckpoint.Checkpoint
}

// TipHash returns the hash of the current tip.
func (c *ChainInfo) TipHash() hash.Hash {
	return c.HighestBlockCheckpoint.HashPrevBlock
}

// IsGenesis reports whether the chain head still points at genesis.
func (c *ChainInfo) IsGenesis() bool {
	return c.HighestBlockCheckpoint.HashPrevBlock == c.ConsensusConstants.GenesisHash
}

func (c *ChainInfo) Serialize(w io.Writer) error {
	if err := s.WriteElements(w, uint8(c.Environment)); err != nil {
		return err
	}
	if err := c.ConsensusConstants.Serialize(w); err != nil {
		return err
	}
	return c.HighestBlockCheckpoint.Serialize(w)
}

func (c *ChainInfo) Deserialize(r io.Reader) error {
	var env uint8
	if err := s.ReadElements(r, &env); err != nil {
		return err
	}
	c.Environment = Environment(env)
	if err := c.ConsensusConstants.Deserialize(r); err != nil {
		return err
	}
	return c.HighestBlockCheckpoint.Deserialize(r)
}

// Bytes returns the serialized chain info.
func (c *ChainInfo) Bytes() ([]byte, error) {
	return s.ToBytes(c)
}

// NewChainInfoFromBytes decodes a chain info read back from storage.
func NewChainInfoFromBytes(raw []byte) (*ChainInfo, error) {
	r := bytes.NewReader(raw)
	var ci ChainInfo
	if err := ci.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after chain info", r.Len())
	}
	return &ci, nil
}
