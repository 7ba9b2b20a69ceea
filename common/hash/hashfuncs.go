// Copyright (c) 2017-2018 The qitmeer developers

package hash

import (
	"crypto/sha256"
	"fmt"
	gohash "hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type Hasher interface {
	gohash.Hash
}

// HashType selects the digest used for content other than block identity.
type HashType byte

const (
	SHA256 HashType = iota
	Keccak_256
	SHA3_256
	Blake2b_256
)

func GetHasher(ht HashType) Hasher {
	switch ht {
	case SHA256:
		return sha256.New()
	case Keccak_256:
		return sha3.NewLegacyKeccak256()
	case SHA3_256:
		return sha3.New256()
	case Blake2b_256:
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
	return nil
}

func (ht HashType) String() string {
	switch ht {
	case SHA256:
		return "sha256"
	case Keccak_256:
		return "keccak256"
	case SHA3_256:
		return "sha3-256"
	case Blake2b_256:
		return "blake2b-256"
	}
	return fmt.Sprintf("Unknown HashType (%d)", byte(ht))
}

// CalcHash calculates the hash of hasher over buf.
func CalcHash(buf []byte, hasher gohash.Hash) []byte {
	defer hasher.Reset()
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// HashH calculates the sha256 of b and returns it as a Hash.  This is the
// digest used for block identity.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// HashWith calculates the digest of b selected by ht.  Unknown types fall
// back to sha256.
func HashWith(ht HashType, b []byte) Hash {
	hasher := GetHasher(ht)
	if hasher == nil {
		return HashH(b)
	}
	var h Hash
	copy(h[:], CalcHash(b, hasher))
	return h
}
