// Copyright 2017-2018 The qitmeer developers

package types

import (
	"bytes"
	"io"

	"github.com/mestorlx/witnet-rust/common/hash"
	s "github.com/mestorlx/witnet-rust/core/serialization"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion uint32 = 1

	// minTxPayload is the minimum payload size for a transaction: version
	// 4 bytes + payload length varint 1 byte.
	minTxPayload = 4 + 1
)

// Transaction is an opaque transaction body.  Its validation belongs to the
// transaction managers, not to the block manager.
type Transaction struct {
	Version uint32
	Payload []byte
}

func (tx *Transaction) Serialize(w io.Writer) error {
	if err := s.WriteElements(w, tx.Version); err != nil {
		return err
	}
	return s.WriteVarBytes(w, tx.Payload)
}

func (tx *Transaction) Deserialize(r io.Reader) error {
	if err := s.ReadElements(r, &tx.Version); err != nil {
		return err
	}
	payload, err := s.ReadVarBytes(r, MaxBlockPayload, "transaction payload")
	if err != nil {
		return err
	}
	tx.Payload = payload
	return nil
}

// TxHash returns the digest selected by ht of the serialized transaction.
func (tx *Transaction) TxHash(ht hash.HashType) hash.Hash {
	var buf bytes.Buffer
	// Writing to a bytes.Buffer cannot fail.
	_ = tx.Serialize(&buf)
	return hash.HashWith(ht, buf.Bytes())
}

func (tx *Transaction) Clone() *Transaction {
	ntx := &Transaction{Version: tx.Version}
	if tx.Payload != nil {
		ntx.Payload = append([]byte{}, tx.Payload...)
	}
	return ntx
}
