package types_test

import (
	"bytes"
	"testing"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockSerializeRoundTrip(t *testing.T) {
	block := testutils.BuildHardcodedBlock(2, 99999)
	block.Header.Proof.BlockSig = []byte{0xde, 0xad}

	raw := testutils.MustBlockBytes(t, block)
	decoded, err := types.NewBlockFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, block, decoded)
	assert.Equal(t, types.Epoch(2), decoded.Epoch())
	assert.Equal(t, uint64(99999), decoded.Influence())
	assert.True(t, decoded.Header.Proof.HasSignature())
}

func TestBlockHashDeterministic(t *testing.T) {
	a := testutils.MustBlockHash(t, testutils.BuildHardcodedBlock(1, 10000))
	b := testutils.MustBlockHash(t, testutils.BuildHardcodedBlock(1, 10000))
	assert.Equal(t, a, b)

	// The proof is part of the hashed content.
	c := testutils.MustBlockHash(t, testutils.BuildHardcodedBlock(1, 10001))
	assert.NotEqual(t, a, c)

	d := testutils.MustBlockHash(t, testutils.BuildHardcodedBlock(2, 10000))
	assert.NotEqual(t, a, d)
}

func TestEmptySignatureDiffersFromAbsent(t *testing.T) {
	absent := testutils.BuildHardcodedBlock(1, 1)
	empty := testutils.BuildHardcodedBlock(1, 1)
	empty.Header.Proof.BlockSig = []byte{}

	assert.False(t, absent.Header.Proof.HasSignature())
	assert.True(t, empty.Header.Proof.HasSignature())
	assert.NotEqual(t, testutils.MustBlockHash(t, absent), testutils.MustBlockHash(t, empty))
}

func TestTxHashes(t *testing.T) {
	block := testutils.BuildHardcodedBlock(1, 1)
	block.Txns = append(block.Txns, &types.Transaction{Version: types.TxVersion, Payload: []byte{0x02}})
	block.TxnCount = 2

	var buf bytes.Buffer
	require.NoError(t, block.Txns[0].Serialize(&buf))
	first := buf.Bytes()

	sha := block.TxHashes(hash.SHA256)
	require.Len(t, sha, 2)
	assert.Equal(t, hash.HashH(first), sha[0])
	assert.NotEqual(t, sha[0], sha[1])

	blake := block.TxHashes(hash.Blake2b_256)
	require.Len(t, blake, 2)
	assert.Equal(t, hash.HashWith(hash.Blake2b_256, first), blake[0])
	assert.NotEqual(t, sha[0], blake[0])

	// Transaction hashes never change the block hash.
	assert.Equal(t, testutils.MustBlockHash(t, block), testutils.MustBlockHash(t, block.Clone()))
}

func TestBlockClone(t *testing.T) {
	block := testutils.BuildHardcodedBlock(3, 72138)
	block.Header.Proof.BlockSig = []byte{1, 2, 3}
	clone := block.Clone()
	assert.Equal(t, block, clone)

	clone.Txns[0].Payload[0] = 0xff
	clone.Header.Proof.BlockSig[0] = 0xff
	assert.Equal(t, byte(0x01), block.Txns[0].Payload[0])
	assert.Equal(t, byte(1), block.Header.Proof.BlockSig[0])
}

func TestNewBlockFromBytesErrors(t *testing.T) {
	raw := testutils.MustBlockBytes(t, testutils.BuildHardcodedBlock(1, 1))

	_, err := types.NewBlockFromBytes(append(raw, 0x00))
	assert.Error(t, err)

	_, err = types.NewBlockFromBytes(raw[:len(raw)-1])
	assert.Error(t, err)

	_, err = types.NewBlockFromBytes(nil)
	assert.Error(t, err)

	_, err = types.NewBlockFromBytes(make([]byte, types.MaxBlockPayload+1))
	assert.Error(t, err)
}

func TestBlockDeserializeFromStream(t *testing.T) {
	var buf bytes.Buffer
	first := testutils.BuildHardcodedBlock(1, 1)
	second := testutils.BuildHardcodedBlock(2, 2)
	require.NoError(t, first.Serialize(&buf))
	require.NoError(t, second.Serialize(&buf))

	var got types.Block
	require.NoError(t, got.Deserialize(&buf))
	assert.Equal(t, first, &got)
	require.NoError(t, got.Deserialize(&buf))
	assert.Equal(t, second, &got)
	assert.Equal(t, 0, buf.Len())
}
