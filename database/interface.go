// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

// DB is a flat byte key/value store.  All backends return a copy of the
// stored value from Get, so callers may keep or modify it.
type DB interface {
	// Type returns the database driver type the current database instance
	// was created with.
	Type() string

	// Get returns the value stored under key.  An Error with ErrKeyNotFound
	// is returned when the key does not exist.
	Get(key []byte) ([]byte, error)

	// Has reports whether key exists.
	Has(key []byte) (bool, error)

	// Put stores value under key, replacing any previous value.
	Put(key, value []byte) error

	// Delete removes key.  Deleting a missing key is not an error.
	Delete(key []byte) error

	// Close cleanly shuts down the database and syncs all data.  It will
	// block until all database transactions have been finalized.
	Close() error
}
