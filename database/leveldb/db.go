// Copyright (c) 2017-2018 The qitmeer developers

// Package leveldb implements the database.DB interface on top of goleveldb.
package leveldb

import (
	"fmt"
	"os"

	"github.com/mestorlx/witnet-rust/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	dbType    = "leveldb"
	memDbType = "memdb"
)

var _ database.DB = (*db)(nil)

type db struct {
	typ string
	ldb *leveldb.DB
}

func (d *db) Type() string {
	return d.typ
}

func (d *db) Get(key []byte) ([]byte, error) {
	value, err := d.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, database.MakeError(database.ErrKeyNotFound,
			fmt.Sprintf("key %x not found", key), nil)
	}
	if err != nil {
		return nil, convertErr("get", err)
	}
	return value, nil
}

func (d *db) Has(key []byte) (bool, error) {
	ok, err := d.ldb.Has(key, nil)
	if err != nil {
		return false, convertErr("has", err)
	}
	return ok, nil
}

func (d *db) Put(key, value []byte) error {
	if err := d.ldb.Put(key, value, nil); err != nil {
		return convertErr("put", err)
	}
	return nil
}

func (d *db) Delete(key []byte) error {
	if err := d.ldb.Delete(key, nil); err != nil {
		return convertErr("delete", err)
	}
	return nil
}

func (d *db) Close() error {
	if err := d.ldb.Close(); err != nil {
		return convertErr("close", err)
	}
	return nil
}

func convertErr(op string, err error) error {
	if err == leveldb.ErrClosed {
		return database.MakeError(database.ErrDbNotOpen, "database is closed", err)
	}
	return database.MakeError(database.ErrDriverSpecific, "leveldb "+op, err)
}

func openDB(dbPath string, create bool) (database.DB, error) {
	_, err := os.Stat(dbPath)
	exists := !os.IsNotExist(err)
	if !create && !exists {
		str := fmt.Sprintf("database %q does not exist", dbPath)
		return nil, database.MakeError(database.ErrDbDoesNotExist, str, nil)
	}
	if create && exists {
		str := fmt.Sprintf("database %q already exists", dbPath)
		return nil, database.MakeError(database.ErrDbExists, str, nil)
	}

	ldb, err := leveldb.OpenFile(dbPath, &opt.Options{
		ErrorIfMissing: !create,
	})
	if err != nil {
		return nil, convertErr("open", err)
	}
	return &db{typ: dbType, ldb: ldb}, nil
}

// newMemDB returns a leveldb instance backed by an in-memory storage.
func newMemDB() (*db, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, convertErr("open", err)
	}
	return &db{typ: memDbType, ldb: ldb}, nil
}
