// Copyright (c) 2017-2018 The qitmeer developers

// Package badgerdb implements the database.DB interface on top of badger.
package badgerdb

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger"
	"github.com/mestorlx/witnet-rust/database"
)

const dbType = "badgerdb"

var _ database.DB = (*db)(nil)

type db struct {
	bdb *badger.DB
}

func (d *db) Type() string {
	return dbType
}

func (d *db) Get(key []byte) ([]byte, error) {
	var value []byte
	err := d.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, database.MakeError(database.ErrKeyNotFound,
			fmt.Sprintf("key %x not found", key), nil)
	}
	if err != nil {
		return nil, convertErr("get", err)
	}
	return value, nil
}

func (d *db) Has(key []byte) (bool, error) {
	err := d.bdb.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, convertErr("has", err)
	}
	return true, nil
}

func (d *db) Put(key, value []byte) error {
	err := d.bdb.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return convertErr("put", err)
	}
	return nil
}

func (d *db) Delete(key []byte) error {
	err := d.bdb.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return convertErr("delete", err)
	}
	return nil
}

func (d *db) Close() error {
	if err := d.bdb.Close(); err != nil {
		return convertErr("close", err)
	}
	return nil
}

func convertErr(op string, err error) error {
	return database.MakeError(database.ErrDriverSpecific, "badgerdb "+op, err)
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
	if err := os.MkdirAll(dbPath, 0700); err != nil {
		return nil, convertErr("open", err)
	}

	opts := badger.DefaultOptions
	opts.Dir = dbPath
	opts.ValueDir = dbPath
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, convertErr("open", err)
	}
	return &db{bdb: bdb}, nil
}
