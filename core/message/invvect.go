// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"io"

	"github.com/mestorlx/witnet-rust/common/hash"
	s "github.com/mestorlx/witnet-rust/core/serialization"
)

const (
	// MaxInvPerMsg is the maximum number of inventory vectors that can be in a
	// single inv message.
	MaxInvPerMsg = 50000

	// Maximum payload size for an inventory vector.
	maxInvVectPayload = 4 + hash.HashSize
)

// InvType represents the allowed types of inventory vectors.  See InvVect.
type InvType uint32

// These constants define the various supported inventory vector types.
const (
	InvTypeError       InvType = 0
	InvTypeTx          InvType = 1
	InvTypeBlock       InvType = 2
	InvTypeDataRequest InvType = 3
	InvTypeDataResult  InvType = 4
)

// Map of inventory types back to their constant names for pretty printing.
var ivStrings = map[InvType]string{
	InvTypeError:       "ERROR",
	InvTypeTx:          "MSG_TX",
	InvTypeBlock:       "MSG_BLOCK",
	InvTypeDataRequest: "MSG_DATA_REQUEST",
	InvTypeDataResult:  "MSG_DATA_RESULT",
}

// String returns the InvType in human-readable form.
func (invtype InvType) String() string {
	if s, ok := ivStrings[invtype]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(invtype))
}

// InvVect defines an inventory vector which is used to describe data,
// as specified by the Type field, that a peer wants, has, or does not have to
// another peer.  Every variant wraps a hash.
type InvVect struct {
	Type InvType   // Type of data
	Hash hash.Hash // Hash of the data
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *hash.Hash) *InvVect {
	return &InvVect{
		Type: typ,
		Hash: *hash,
	}
}

func (iv *InvVect) String() string {
	return fmt.Sprintf("%s %s", iv.Type, iv.Hash)
}

// readInvVect reads an encoded InvVect from r.
func readInvVect(r io.Reader, iv *InvVect) error {
	var typ uint32
	if err := s.ReadElements(r, &typ, &iv.Hash); err != nil {
		return err
	}
	iv.Type = InvType(typ)
	return nil
}

// writeInvVect serializes an InvVect to w.
func writeInvVect(w io.Writer, iv *InvVect) error {
	return s.WriteElements(w, uint32(iv.Type), &iv.Hash)
}
