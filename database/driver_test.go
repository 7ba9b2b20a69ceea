// Copyright (c) 2017-2018 The qitmeer developers

package database_test

import (
	"path/filepath"
	"testing"

	"github.com/mestorlx/witnet-rust/database"
	_ "github.com/mestorlx/witnet-rust/database/badgerdb"
	_ "github.com/mestorlx/witnet-rust/database/boltdb"
	_ "github.com/mestorlx/witnet-rust/database/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedDrivers(t *testing.T) {
	assert.Equal(t, []string{"badgerdb", "boltdb", "leveldb", "memdb"},
		database.SupportedDrivers())
}

func TestRegisterDuplicateDriver(t *testing.T) {
	err := database.RegisterDriver(database.Driver{DbType: "leveldb"})
	assert.True(t, database.IsErrorCode(err, database.ErrDbTypeRegistered))
}

func TestUnknownDriver(t *testing.T) {
	_, err := database.Create("rocksdb", t.TempDir())
	assert.True(t, database.IsErrorCode(err, database.ErrDbUnknownType))
	_, err = database.Open("rocksdb", t.TempDir())
	assert.True(t, database.IsErrorCode(err, database.ErrDbUnknownType))
}

func TestInvalidArgs(t *testing.T) {
	_, err := database.Create("leveldb")
	assert.True(t, database.IsErrorCode(err, database.ErrInvalid))
	_, err = database.Open("boltdb", 42)
	assert.True(t, database.IsErrorCode(err, database.ErrInvalid))
}

func TestErrorCodeStringer(t *testing.T) {
	assert.Equal(t, "ErrKeyNotFound", database.ErrKeyNotFound.String())
	assert.Equal(t, "Unknown ErrorCode (999)", database.ErrorCode(999).String())
}

func TestBackends(t *testing.T) {
	for _, dbType := range database.SupportedDrivers() {
		t.Run(dbType, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "db_"+dbType)

			if dbType != "memdb" {
				_, err := database.Open(dbType, dbPath)
				assert.True(t, database.IsErrorCode(err, database.ErrDbDoesNotExist), "%v", err)
			}

			db, err := database.Create(dbType, dbPath)
			require.NoError(t, err)
			assert.Equal(t, dbType, db.Type())

			key := []byte("chain")
			_, err = db.Get(key)
			assert.True(t, database.IsNotFound(err), "%v", err)
			ok, err := db.Has(key)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, db.Put(key, []byte{1, 2, 3}))
			value, err := db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, value)

			// The returned value is a copy.
			value[0] = 9
			value, err = db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, value)

			require.NoError(t, db.Put(key, []byte{4}))
			value, err = db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte{4}, value)

			require.NoError(t, db.Delete(key))
			require.NoError(t, db.Delete(key))
			ok, err = db.Has(key)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, db.Put(key, []byte{5}))
			require.NoError(t, db.Close())

			if dbType == "memdb" {
				return
			}

			_, err = database.Create(dbType, dbPath)
			assert.True(t, database.IsErrorCode(err, database.ErrDbExists), "%v", err)

			db, err = database.Open(dbType, dbPath)
			require.NoError(t, err)
			defer db.Close()
			value, err = db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte{5}, value)
		})
	}
}
