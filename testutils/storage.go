// Copyright (c) 2020 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package testutils

import (
	"sync"

	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// FakeStorage is an in-memory storage answering every request at once.  It
// records the requests it served so tests can count writes.
type FakeStorage struct {
	mu      sync.Mutex
	values  map[string][]byte
	puts    map[string]int
	gets    map[string]int
	deletes map[string]int

	// GetErr, when set, is returned by every Get.
	GetErr error
	// PutErr, when set, is returned by every Put.  The value is not stored.
	PutErr error
}

// NewFakeStorage returns an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		values:  make(map[string][]byte),
		puts:    make(map[string]int),
		gets:    make(map[string]int),
		deletes: make(map[string]int),
	}
}

func (f *FakeStorage) Get(key []byte) <-chan storagemgr.GetResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[string(key)]++

	reply := make(chan storagemgr.GetResult, 1)
	if f.GetErr != nil {
		reply <- storagemgr.GetResult{Err: f.GetErr}
		return reply
	}
	value, ok := f.values[string(key)]
	if !ok {
		reply <- storagemgr.GetResult{Err: database.MakeError(
			database.ErrKeyNotFound, "key not found", nil)}
		return reply
	}
	reply <- storagemgr.GetResult{Value: append([]byte(nil), value...)}
	return reply
}

func (f *FakeStorage) Put(key, value []byte) <-chan error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[string(key)]++

	reply := make(chan error, 1)
	if f.PutErr != nil {
		reply <- f.PutErr
		return reply
	}
	f.values[string(key)] = append([]byte(nil), value...)
	reply <- nil
	return reply
}

func (f *FakeStorage) Delete(key []byte) <-chan error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes[string(key)]++
	delete(f.values, string(key))

	reply := make(chan error, 1)
	reply <- nil
	return reply
}

// SetValue stores value under key without counting a Put.
func (f *FakeStorage) SetValue(key, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[string(key)] = append([]byte(nil), value...)
}

// Value returns the value stored under key.
func (f *FakeStorage) Value(key []byte) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[string(key)]
	return value, ok
}

// PutCount returns how many Puts were issued for key.
func (f *FakeStorage) PutCount(key []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts[string(key)]
}

// TotalPuts returns how many Puts were issued for any key.
func (f *FakeStorage) TotalPuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.puts {
		n += c
	}
	return n
}

// GetCount returns how many Gets were issued for key.
func (f *FakeStorage) GetCount(key []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[string(key)]
}

// DeleteCount returns how many Deletes were issued for key.
func (f *FakeStorage) DeleteCount(key []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes[string(key)]
}
