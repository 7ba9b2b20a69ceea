// Copyright (c) 2017-2018 The nox developers
// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"io"

	"github.com/mestorlx/witnet-rust/core/types"
)

// MsgBlock represents a block message.  It is used to deliver a block in
// response to a getdata message for a given block hash.
type MsgBlock struct {
	*types.Block
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgBlock) MaxPayloadLength() uint32 {
	return types.MaxBlockPayload
}

// Decode decodes r using the protocol encoding into the receiver.
func (msg *MsgBlock) Decode(r io.Reader) error {
	msg.Block = &types.Block{}
	return msg.Block.Deserialize(r)
}

// Encode encodes the receiver to w using the protocol encoding.
func (msg *MsgBlock) Encode(w io.Writer) error {
	return msg.Block.Serialize(w)
}

// InvVect returns the block inventory vector announcing this block.
func (msg *MsgBlock) InvVect() (*InvVect, error) {
	h, err := msg.Block.BlockHash()
	if err != nil {
		return nil, err
	}
	return NewInvVect(InvTypeBlock, &h), nil
}

// NewMsgBlock returns a new block message wrapping the passed block.
func NewMsgBlock(block *types.Block) *MsgBlock {
	return &MsgBlock{Block: block}
}
