// Copyright 2017-2018 The qitmeer developers

package serialization

import (
	"bytes"
	"io"
)

// Serializable is implemented by every value that is hashed or written to
// storage.  The encoding is the canonical byte form used for both.
type Serializable interface {
	Serialize(w io.Writer) error

	Deserialize(r io.Reader) error
}

// ToBytes returns the canonical encoding of v.
func ToBytes(v Serializable) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
