// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blkmgr

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrBlockAlreadyExists indicates a block with the same hash is
	// already in the block index.
	ErrBlockAlreadyExists ErrorCode = iota

	// ErrBlockNotFound indicates the requested block is not known.
	ErrBlockNotFound

	// ErrNoCandidates indicates an epoch was consolidated without any
	// candidate.  It is an expected outcome when no block arrived.
	ErrNoCandidates

	// ErrStorageFailure indicates the storage collaborator failed or
	// returned data that could not be decoded.
	ErrStorageFailure

	// ErrNotReady indicates the block manager has not finished loading
	// the chain info.
	ErrNotReady

	// ErrInvalidBlock indicates the submitted bytes are not a block.
	ErrInvalidBlock
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrBlockAlreadyExists: "ErrBlockAlreadyExists",
	ErrBlockNotFound:      "ErrBlockNotFound",
	ErrNoCandidates:       "ErrNoCandidates",
	ErrStorageFailure:     "ErrStorageFailure",
	ErrNotReady:           "ErrNotReady",
	ErrInvalidBlock:       "ErrInvalidBlock",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a block manager failure.  The caller can use errors.As
// or IsErrorCode to access the ErrorCode field to ascertain the specific
// reason.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error, if any
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// ruleError creates an Error given a set of arguments.
func ruleError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// wrapError creates an Error carrying the underlying cause.
func wrapError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is a block manager
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
