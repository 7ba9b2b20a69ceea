// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"github.com/mestorlx/witnet-rust/core/message"
)

// haveInventory returns whether or not the inventory represented by the
// passed inventory vector is known.  Block vectors, and the types nobody
// registered a source for, are looked up in the block index.
//
// This function MUST be called from the block handler goroutine.
func (b *BlockManager) haveInventory(invVect *message.InvVect) bool {
	if invVect.Type != message.InvTypeBlock {
		if source, ok := b.invSources[invVect.Type]; ok {
			return source.HaveInventory(&invVect.Hash)
		}
	}
	return b.index.Contains(invVect.Hash)
}

// missingInventory returns the vectors of invVects that are not known, in
// their original order.  Nil entries are skipped.
//
// This function MUST be called from the block handler goroutine.
func (b *BlockManager) missingInventory(invVects []*message.InvVect) []*message.InvVect {
	missing := make([]*message.InvVect, 0, len(invVects))
	for _, iv := range invVects {
		if iv == nil {
			continue
		}
		if !b.haveInventory(iv) {
			missing = append(missing, iv)
		}
	}

	b.invRequested.Inc(int64(len(invVects)))
	b.invMissing.Inc(int64(len(missing)))
	log.Trace("Reconciled inventory", "offered", len(invVects),
		"missing", len(missing))
	return missing
}
