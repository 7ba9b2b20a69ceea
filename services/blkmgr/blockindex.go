// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"fmt"
	"sort"

	"github.com/deckarep/golang-set"
	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
)

// BlockIndex holds every known block by hash together with the candidate
// hashes of every epoch.  A hash is a key of blocks iff it is a member of
// exactly one epoch set, the one of the epoch its block claims.
//
// BlockIndex is not safe for concurrent access.  The block manager only
// touches it from the block handler goroutine.
type BlockIndex struct {
	blocks map[hash.Hash]*types.Block

	// epoch -> set of hash.Hash
	epochs map[types.Epoch]mapset.Set
}

// NewBlockIndex returns an empty block index.
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{
		blocks: make(map[hash.Hash]*types.Block),
		epochs: make(map[types.Epoch]mapset.Set),
	}
}

// InsertCandidate hashes block and adds it as a candidate of the epoch it
// claims.  The hash is returned even when the block is rejected as a
// duplicate.  The index keeps the passed block, callers must not modify it
// afterwards.
func (bi *BlockIndex) InsertCandidate(block *types.Block) (hash.Hash, error) {
	h, err := block.BlockHash()
	if err != nil {
		return hash.ZeroHash, wrapError(ErrInvalidBlock,
			"unable to serialize block", err)
	}
	if _, exists := bi.blocks[h]; exists {
		str := fmt.Sprintf("already have block %v", h)
		return h, ruleError(ErrBlockAlreadyExists, str)
	}

	epoch := block.Epoch()
	candidates, ok := bi.epochs[epoch]
	if !ok {
		candidates = mapset.NewThreadUnsafeSet()
		bi.epochs[epoch] = candidates
	}
	candidates.Add(h)
	bi.blocks[h] = block

	return h, nil
}

// Get returns a copy of the block with hash h.
func (bi *BlockIndex) Get(h hash.Hash) (*types.Block, error) {
	block, ok := bi.blocks[h]
	if !ok {
		str := fmt.Sprintf("block %v is not known", h)
		return nil, ruleError(ErrBlockNotFound, str)
	}
	return block.Clone(), nil
}

// block returns the stored block without copying it.
func (bi *BlockIndex) block(h hash.Hash) (*types.Block, bool) {
	block, ok := bi.blocks[h]
	return block, ok
}

// Candidates returns the candidate hashes of epoch sorted by raw bytes.  The
// result is empty, never nil, for an unknown epoch.
func (bi *BlockIndex) Candidates(epoch types.Epoch) []hash.Hash {
	candidates, ok := bi.epochs[epoch]
	if !ok {
		return []hash.Hash{}
	}
	hashes := make([]hash.Hash, 0, candidates.Cardinality())
	for _, h := range candidates.ToSlice() {
		hashes = append(hashes, h.(hash.Hash))
	}
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i].Less(hashes[j])
	})
	return hashes
}

// Contains reports whether a block with hash h is known.
func (bi *BlockIndex) Contains(h hash.Hash) bool {
	_, ok := bi.blocks[h]
	return ok
}

// Len returns the number of known blocks.
func (bi *BlockIndex) Len() int {
	return len(bi.blocks)
}

// epochsThrough returns the epochs with candidates up to and including
// last, in ascending order.
func (bi *BlockIndex) epochsThrough(last types.Epoch) []types.Epoch {
	epochs := make([]types.Epoch, 0)
	for epoch := range bi.epochs {
		if epoch <= last {
			epochs = append(epochs, epoch)
		}
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
	return epochs
}

// removeCandidate drops h from both maps.  It reports false when h is not
// known, in which case nothing changes.
func (bi *BlockIndex) removeCandidate(h hash.Hash) bool {
	block, ok := bi.blocks[h]
	if !ok {
		return false
	}
	epoch := block.Epoch()
	if candidates, ok := bi.epochs[epoch]; ok {
		candidates.Remove(h)
		if candidates.Cardinality() == 0 {
			delete(bi.epochs, epoch)
		}
	}
	delete(bi.blocks, h)
	return true
}
