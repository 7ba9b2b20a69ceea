// Copyright (c) 2017-2018 The qitmeer developers

package storagemgr

import (
	"github.com/mestorlx/witnet-rust/common/hash"
)

// ChainKey is the key the chain info is stored under.
var ChainKey = []byte("chain")

var blockKeyPrefix = []byte("block-")

// BlockKey returns the key a block with the given hash is stored under.
func BlockKey(h hash.Hash) []byte {
	key := make([]byte, 0, len(blockKeyPrefix)+hash.HashSize)
	key = append(key, blockKeyPrefix...)
	return append(key, h[:]...)
}
