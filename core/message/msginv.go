// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"io"

	s "github.com/mestorlx/witnet-rust/core/serialization"
)

// defaultInvListAlloc is the default size used for the backing array for an
// inventory list.  The array will dynamically grow as needed, but this
// figure is intended to provide enough space for the max number of inventory
// vectors in a *typical* inventory message without needing to grow the backing
// array multiple times.
const defaultInvListAlloc = 1000

// MsgInv represents an inventory announcement or a getdata request, both
// carry a list of inventory vectors.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return fmt.Errorf("MsgInv.AddInvVect: too many invvect in message [max %v]",
			MaxInvPerMsg)
	}

	msg.InvList = append(msg.InvList, iv)
	return nil
}

// Decode decodes r using the protocol encoding into the receiver.
func (msg *MsgInv) Decode(r io.Reader) error {
	count, err := s.ReadVarInt(r)
	if err != nil {
		return err
	}

	// Limit to max inventory vectors per message.
	if count > MaxInvPerMsg {
		return fmt.Errorf("MsgInv.Decode: too many invvect in message [%v]", count)
	}

	// Create a contiguous slice of inventory vectors to deserialize into in
	// order to reduce the number of allocations.
	invList := make([]InvVect, count)
	msg.InvList = make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv := &invList[i]
		err := readInvVect(r, iv)
		if err != nil {
			return err
		}
		msg.AddInvVect(iv)
	}

	return nil
}

// Encode encodes the receiver to w using the protocol encoding.
func (msg *MsgInv) Encode(w io.Writer) error {
	// Limit to max inventory vectors per message.
	count := len(msg.InvList)
	if count > MaxInvPerMsg {
		return fmt.Errorf("MsgInv.Encode: too many invvect in message [%v]", count)
	}

	err := s.WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}

	for _, iv := range msg.InvList {
		err := writeInvVect(w, iv)
		if err != nil {
			return err
		}
	}

	return nil
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgInv) MaxPayloadLength() uint32 {
	// Num inventory vectors (varInt) + max allowed inventory vectors.
	return uint32(s.MaxVarIntPayload + (MaxInvPerMsg * maxInvVectPayload))
}

// NewMsgInv returns a new inv message.
func NewMsgInv() *MsgInv {
	return &MsgInv{
		InvList: make([]*InvVect, 0, defaultInvListAlloc),
	}
}
