// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"fmt"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// ConsolidationResult describes the canonical block selected for an epoch.
type ConsolidationResult struct {
	Epoch     types.Epoch
	Hash      hash.Hash
	Influence uint64

	// Candidates is the size of the candidate set at selection time.
	Candidates int

	// Advanced is true when this call selected the block and moved the
	// chain tip to it.  A repeated consolidation of an epoch reports the
	// recorded winner with Advanced false.
	Advanced bool
}

// selectCanonical returns the candidate with the greatest influence.  Ties
// are broken by the smallest hash compared as raw bytes.  hashes must not be
// empty and every hash must be in the index.
func selectCanonical(bi *BlockIndex, hashes []hash.Hash) (hash.Hash, uint64) {
	var (
		best          hash.Hash
		bestInfluence uint64
	)
	for i, h := range hashes {
		block, _ := bi.block(h)
		influence := block.Influence()
		if i == 0 || influence > bestInfluence ||
			(influence == bestInfluence && h.Less(best)) {
			best = h
			bestInfluence = influence
		}
	}
	return best, bestInfluence
}

// consolidate selects the canonical block of epoch.  The first consolidation
// of an epoch wins.  The chain tip moves to the selected block only when
// epoch is not older than the current tip, and every tip move is persisted
// without waiting for the write to complete.
//
// This function MUST be called from the block handler goroutine.
func (b *BlockManager) consolidate(epoch types.Epoch) (*ConsolidationResult, error) {
	if canonical, ok := b.canonical[epoch]; ok {
		result := &ConsolidationResult{
			Epoch:      epoch,
			Hash:       canonical,
			Candidates: len(b.index.Candidates(epoch)),
		}
		if block, ok := b.index.block(canonical); ok {
			result.Influence = block.Influence()
		}
		log.Debug("Epoch already consolidated", "epoch", epoch, "hash", canonical)
		return result, nil
	}

	candidates := b.index.Candidates(epoch)
	if len(candidates) == 0 {
		log.Debug("No candidates to consolidate", "epoch", epoch)
		return nil, ruleError(ErrNoCandidates,
			fmt.Sprintf("no candidates for epoch %d", epoch))
	}

	winner, influence := selectCanonical(b.index, candidates)
	b.canonical[epoch] = winner
	b.consolidations.Inc(1)

	result := &ConsolidationResult{
		Epoch:      epoch,
		Hash:       winner,
		Influence:  influence,
		Candidates: len(candidates),
	}

	if epoch >= b.chainState.TipEpoch() {
		b.chainState.setTip(types.CheckpointBeacon{
			Checkpoint:    epoch,
			HashPrevBlock: winner,
		})
		b.watch("chain info", b.chainState.persist(b.storage))
		result.Advanced = true
		log.Info("Consolidated epoch", "epoch", epoch, "hash", winner,
			"influence", influence, "candidates", len(candidates))
	} else {
		log.Debug("Consolidated epoch behind the tip", "epoch", epoch,
			"hash", winner, "tip", b.chainState.TipEpoch())
	}

	if b.retainEpochs > 0 && uint64(epoch) >= uint64(b.retainEpochs) {
		b.pruneCandidates(epoch - types.Epoch(b.retainEpochs))
	}

	return result, nil
}

// pruneCandidates drops every non-canonical candidate of the epochs up to and
// including last.  Epochs that were never consolidated lose all of their
// candidates.
func (b *BlockManager) pruneCandidates(last types.Epoch) {
	pruned := 0
	for _, epoch := range b.index.epochsThrough(last) {
		canonical, consolidated := b.canonical[epoch]
		for _, h := range b.index.Candidates(epoch) {
			if consolidated && h == canonical {
				continue
			}
			if !b.index.removeCandidate(h) {
				continue
			}
			pruned++
			if b.persistBlocks {
				b.watch("block delete", b.storage.Delete(storagemgr.BlockKey(h)))
			}
		}
	}
	if pruned > 0 {
		b.prunedBlocks.Inc(int64(pruned))
		log.Debug("Pruned block candidates", "through", last, "count", pruned)
	}
}
