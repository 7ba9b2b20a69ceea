// Copyright (c) 2017-2018 The qitmeer developers

// Package boltdb implements the database.DB interface on top of bbolt.  All
// keys live in a single bucket.
package boltdb

import (
	"fmt"
	"os"
	"time"

	"github.com/mestorlx/witnet-rust/database"
	bolt "go.etcd.io/bbolt"
)

const dbType = "boltdb"

var bucketName = []byte("witnet")

var _ database.DB = (*db)(nil)

type db struct {
	bdb *bolt.DB
}

func (d *db) Type() string {
	return dbType
}

func (d *db) Get(key []byte) ([]byte, error) {
	var value []byte
	err := d.bdb.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key)
		if v == nil {
			return database.MakeError(database.ErrKeyNotFound,
				fmt.Sprintf("key %x not found", key), nil)
		}
		// The slice is only valid for the life of the transaction.
		value = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, convertErr("get", err)
	}
	return value, nil
}

func (d *db) Has(key []byte) (bool, error) {
	var ok bool
	err := d.bdb.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(bucketName).Get(key) != nil
		return nil
	})
	if err != nil {
		return false, convertErr("has", err)
	}
	return ok, nil
}

func (d *db) Put(key, value []byte) error {
	err := d.bdb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	if err != nil {
		return convertErr("put", err)
	}
	return nil
}

func (d *db) Delete(key []byte) error {
	err := d.bdb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key)
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
	if _, ok := err.(database.Error); ok {
		return err
	}
	if err == bolt.ErrDatabaseNotOpen {
		return database.MakeError(database.ErrDbNotOpen, "database is closed", err)
	}
	return database.MakeError(database.ErrDriverSpecific, "boltdb "+op, err)
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

	bdb, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, convertErr("open", err)
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, convertErr("open", err)
	}
	return &db{bdb: bdb}, nil
}
