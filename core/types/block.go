// Copyright 2017-2018 The qitmeer developers

package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mestorlx/witnet-rust/common/hash"
	s "github.com/mestorlx/witnet-rust/core/serialization"
)

// MaxBlockPayload is the maximum bytes a serialized block can be.
const MaxBlockPayload = 4000000

// MaxBlockSignaturePayload is the maximum size of the signature carried by a
// leadership proof.
const MaxBlockSignaturePayload = 1024

// maxTxPerBlock is the maximum number of transactions that could
// possibly fit into a block.
const maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1

// Epoch identifies a discrete block production round, also called
// checkpoint.
type Epoch uint32

// CheckpointBeacon anchors a block to the epoch it claims and to the block it
// builds on.
type CheckpointBeacon struct {
	Checkpoint    Epoch
	HashPrevBlock hash.Hash
}

func (b *CheckpointBeacon) Serialize(w io.Writer) error {
	return s.WriteElements(w, uint32(b.Checkpoint), &b.HashPrevBlock)
}

func (b *CheckpointBeacon) Deserialize(r io.Reader) error {
	var checkpoint uint32
	if err := s.ReadElements(r, &checkpoint, &b.HashPrevBlock); err != nil {
		return err
	}
	b.Checkpoint = Epoch(checkpoint)
	return nil
}

// LeadershipProof is the eligibility proof of a block for its epoch.  Only the
// presence of the signature and the influence are inspected here.
type LeadershipProof struct {
	// BlockSig is nil when the proof carries no signature.
	BlockSig []byte

	// Influence ranks competing candidates of the same epoch.
	Influence uint64
}

func (p *LeadershipProof) HasSignature() bool {
	return p.BlockSig != nil
}

func (p *LeadershipProof) Serialize(w io.Writer) error {
	if err := s.WriteElements(w, p.HasSignature()); err != nil {
		return err
	}
	if p.HasSignature() {
		if err := s.WriteVarBytes(w, p.BlockSig); err != nil {
			return err
		}
	}
	return s.WriteElements(w, p.Influence)
}

func (p *LeadershipProof) Deserialize(r io.Reader) error {
	var hasSig bool
	if err := s.ReadElements(r, &hasSig); err != nil {
		return err
	}
	p.BlockSig = nil
	if hasSig {
		sig, err := s.ReadVarBytes(r, MaxBlockSignaturePayload, "block signature")
		if err != nil {
			return err
		}
		p.BlockSig = sig
	}
	return s.ReadElements(r, &p.Influence)
}

type BlockHeader struct {
	// block version
	Version uint32

	// Claimed position of the block in the chain
	Beacon CheckpointBeacon

	// The merkle root of the tx tree
	HashMerkleRoot hash.Hash
}

// Serialize encodes a block header into w using the format that is both
// hashed and stored.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := s.WriteElements(w, h.Version); err != nil {
		return err
	}
	if err := h.Beacon.Serialize(w); err != nil {
		return err
	}
	return s.WriteElements(w, &h.HashMerkleRoot)
}

func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := s.ReadElements(r, &h.Version); err != nil {
		return err
	}
	if err := h.Beacon.Deserialize(r); err != nil {
		return err
	}
	return s.ReadElements(r, &h.HashMerkleRoot)
}

// BlockHeaderWithProof is the header together with the leadership proof of
// its producer.
type BlockHeaderWithProof struct {
	BlockHeader BlockHeader
	Proof       LeadershipProof
}

func (h *BlockHeaderWithProof) Serialize(w io.Writer) error {
	if err := h.BlockHeader.Serialize(w); err != nil {
		return err
	}
	return h.Proof.Serialize(w)
}

func (h *BlockHeaderWithProof) Deserialize(r io.Reader) error {
	if err := h.BlockHeader.Deserialize(r); err != nil {
		return err
	}
	return h.Proof.Deserialize(r)
}

// Block is treated as an opaque aggregate: two blocks are the same entity iff
// their hashes are equal.
type Block struct {
	Header   BlockHeaderWithProof
	TxnCount uint32
	Txns     []*Transaction
}

// Epoch returns the checkpoint the block claims in its beacon.
func (b *Block) Epoch() Epoch {
	return b.Header.BlockHeader.Beacon.Checkpoint
}

// Influence returns the ranking value of the block's leadership proof.
func (b *Block) Influence() uint64 {
	return b.Header.Proof.Influence
}

// Serialize encodes the block into w.  The output is the canonical form the
// block hash is computed over.
func (b *Block) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if err := s.WriteElements(w, b.TxnCount); err != nil {
		return err
	}
	if err := s.WriteVarInt(w, uint64(len(b.Txns))); err != nil {
		return err
	}
	for _, tx := range b.Txns {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r into the receiver.
func (b *Block) Deserialize(r io.Reader) error {
	if err := b.Header.Deserialize(r); err != nil {
		return err
	}
	if err := s.ReadElements(r, &b.TxnCount); err != nil {
		return err
	}
	count, err := s.ReadVarInt(r)
	if err != nil {
		return err
	}

	// Prevent more transactions than could possibly fit into a block.
	// It would be possible to cause memory exhaustion and panics without
	// a sane upper bound on this count.
	if count > maxTxPerBlock {
		return fmt.Errorf("too many transactions to fit into a block "+
			"[count %d, max %d]", count, maxTxPerBlock)
	}

	b.Txns = make([]*Transaction, 0, count)
	for i := uint64(0); i < count; i++ {
		tx := &Transaction{}
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		b.Txns = append(b.Txns, tx)
	}
	return nil
}

// Bytes returns the serialized block.
func (b *Block) Bytes() ([]byte, error) {
	return s.ToBytes(b)
}

// BlockHash computes the content hash of the block over its canonical
// serialization.
func (b *Block) BlockHash() (hash.Hash, error) {
	raw, err := b.Bytes()
	if err != nil {
		return hash.ZeroHash, err
	}
	return hash.HashH(raw), nil
}

// TxHashes returns the hashes of the block transactions, in block order.
func (b *Block) TxHashes(ht hash.HashType) []hash.Hash {
	hashes := make([]hash.Hash, 0, len(b.Txns))
	for _, tx := range b.Txns {
		hashes = append(hashes, tx.TxHash(ht))
	}
	return hashes
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	nb := &Block{
		Header:   b.Header,
		TxnCount: b.TxnCount,
	}
	if b.Header.Proof.BlockSig != nil {
		nb.Header.Proof.BlockSig = append([]byte{}, b.Header.Proof.BlockSig...)
	}
	if b.Txns != nil {
		nb.Txns = make([]*Transaction, len(b.Txns))
		for i, tx := range b.Txns {
			nb.Txns[i] = tx.Clone()
		}
	}
	return nb
}

// NewBlockFromBytes decodes a block from its serialized form.  Trailing bytes
// are rejected so that the hash of the decoded block always covers exactly the
// bytes received.
func NewBlockFromBytes(raw []byte) (*Block, error) {
	if len(raw) > MaxBlockPayload {
		return nil, fmt.Errorf("serialized block is too big - got %d, "+
			"max %d", len(raw), MaxBlockPayload)
	}
	r := bytes.NewReader(raw)
	var block Block
	if err := block.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after block", r.Len())
	}
	return &block, nil
}
