// Copyright (c) 2020 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package testutils

import (
	"testing"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
)

// FillHash returns a hash with every byte set to b.
func FillHash(b byte) hash.Hash {
	var h hash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

// BuildHardcodedBlock returns a fixed block claiming the given checkpoint and
// carrying the given influence.  Two calls with the same arguments return
// blocks with the same hash.
func BuildHardcodedBlock(checkpoint types.Epoch, influence uint64) *types.Block {
	return &types.Block{
		Header: types.BlockHeaderWithProof{
			BlockHeader: types.BlockHeader{
				Version: 1,
				Beacon: types.CheckpointBeacon{
					Checkpoint:    checkpoint,
					HashPrevBlock: FillHash(4),
				},
				HashMerkleRoot: FillHash(3),
			},
			Proof: types.LeadershipProof{
				BlockSig:  nil,
				Influence: influence,
			},
		},
		TxnCount: 1,
		Txns: []*types.Transaction{
			{Version: types.TxVersion, Payload: []byte{0x01}},
		},
	}
}

// MustBlockHash returns the hash of block, failing the test on error.
func MustBlockHash(t testing.TB, block *types.Block) hash.Hash {
	t.Helper()
	h, err := block.BlockHash()
	if err != nil {
		t.Fatalf("BlockHash: %v", err)
	}
	return h
}

// MustBlockBytes returns the serialized block, failing the test on error.
func MustBlockBytes(t testing.TB, block *types.Block) []byte {
	t.Helper()
	raw, err := block.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	return raw
}
