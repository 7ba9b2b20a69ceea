// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific database Error.
const (
	// ErrDbTypeRegistered indicates two different database drivers
	// attempt to register with the name database type.
	ErrDbTypeRegistered ErrorCode = iota

	// ErrDbUnknownType indicates there is no driver registered for
	// the specified database type.
	ErrDbUnknownType

	// ErrDbDoesNotExist indicates open is called for a database that
	// does not exist.
	ErrDbDoesNotExist

	// ErrDbExists indicates create is called for a database that
	// already exists.
	ErrDbExists

	// ErrDbNotOpen indicates a database instance is accessed before
	// it is opened or after it is closed.
	ErrDbNotOpen

	// ErrInvalid indicates the arguments passed to a driver are not
	// usable.
	ErrInvalid

	// ErrKeyNotFound indicates the requested key does not exist.
	ErrKeyNotFound

	// ErrDriverSpecific indicates the Err field is a driver-specific error.
	// This provides a mechanism for drivers to plug-in their own custom
	// errors for any situations which aren't already covered by the error
	// codes provided by this package.
	ErrDriverSpecific

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDbTypeRegistered: "ErrDbTypeRegistered",
	ErrDbUnknownType:    "ErrDbUnknownType",
	ErrDbDoesNotExist:   "ErrDbDoesNotExist",
	ErrDbExists:         "ErrDbExists",
	ErrDbNotOpen:        "ErrDbNotOpen",
	ErrInvalid:          "ErrInvalid",
	ErrKeyNotFound:      "ErrKeyNotFound",
	ErrDriverSpecific:   "ErrDriverSpecific",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during database
// operation.  The caller can use type assertions or errors.As to access the
// ErrorCode field to ascertain the specific reason for the failure.
//
// The ErrDriverSpecific error code will also have the Err field set with the
// underlying error.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying driver error, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// MakeError creates an Error given a set of arguments.  The error code must
// be one of the error codes provided by this package.
func MakeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is a database error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var dbErr Error
	return errors.As(err, &dbErr) && dbErr.ErrorCode == c
}

// IsNotFound reports whether err signals a missing key.
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrKeyNotFound)
}
