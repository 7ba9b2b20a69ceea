// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// Storage is the asynchronous key/value contract the block manager persists
// through.  Every call returns at once and answers on the returned channel.
// A Get for a missing key answers with an error satisfying
// database.IsNotFound.
type Storage interface {
	Get(key []byte) <-chan storagemgr.GetResult
	Put(key, value []byte) <-chan error
	Delete(key []byte) <-chan error
}

// InventorySource answers whether a piece of inventory of one type is known
// locally.  The mempool and the data request managers register one for their
// own inventory types.  It is called from the block handler goroutine.
type InventorySource interface {
	HaveInventory(h *hash.Hash) bool
}
