package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashH(t *testing.T) {
	h := HashH([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(h[:]))
	assert.Equal(t, h, HashWith(SHA256, []byte("abc")))
}

func TestStringIsByteReversed(t *testing.T) {
	var h Hash
	h[0] = 0x01
	h[HashSize-1] = 0xff
	s := h.String()
	assert.Equal(t, "ff", s[:2])
	assert.Equal(t, "01", s[len(s)-2:])

	decoded, err := NewHashFromStr(s)
	require.NoError(t, err)
	assert.Equal(t, h, *decoded)
}

func TestDecodeTooLong(t *testing.T) {
	_, err := NewHashFromStr(string(make([]byte, MaxHashStringSize+1)))
	assert.Equal(t, ErrHashStrSize, err)
}

func TestCompare(t *testing.T) {
	a := Hash{0x01}
	b := Hash{0x02}
	var c Hash
	c[HashSize-1] = 0xff

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
	assert.Equal(t, 0, a.Compare(a))
	// raw byte order, not the reversed display order
	assert.True(t, c.Less(a))
}

func TestSetBytes(t *testing.T) {
	var h Hash
	assert.Error(t, h.SetBytes([]byte{1, 2, 3}))

	nh, err := NewHash(CalcHash([]byte("x"), GetHasher(SHA256)))
	require.NoError(t, err)
	assert.Equal(t, HashH([]byte("x")), *nh)
	assert.False(t, nh.IsEqual(&Hash{}))
}

func TestTextRoundTrip(t *testing.T) {
	h := HashH([]byte("witnet"))
	text, err := h.MarshalText()
	require.NoError(t, err)

	var back Hash
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, h, back)
}

func TestGetHasher(t *testing.T) {
	for _, ht := range []HashType{SHA256, Keccak_256, SHA3_256, Blake2b_256} {
		hasher := GetHasher(ht)
		require.NotNil(t, hasher)
		assert.Len(t, CalcHash([]byte("data"), hasher), HashSize)
	}
	sum := HashH([]byte("data"))
	assert.Equal(t, sum[:], CalcHash([]byte("data"), GetHasher(SHA256)))
	assert.Nil(t, GetHasher(HashType(99)))
}

func TestHashWith(t *testing.T) {
	data := []byte("witnet")
	assert.Equal(t, HashH(data), HashWith(SHA256, data))
	assert.Equal(t, HashH(data), HashWith(HashType(99), data))

	seen := map[Hash]HashType{}
	for _, ht := range []HashType{SHA256, Keccak_256, SHA3_256, Blake2b_256} {
		h := HashWith(ht, data)
		_, dup := seen[h]
		assert.False(t, dup, ht.String())
		seen[h] = ht
	}
	assert.Equal(t, "blake2b-256", Blake2b_256.String())
	assert.Equal(t, "Unknown HashType (99)", HashType(99).String())
}
