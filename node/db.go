// Copyright (c) 2017-2018 The qitmeer developers

package node

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/database"
)

const (
	// blockDbNamePrefix is the prefix for the block database name.  The
	// database type is appended to this value to form the full block
	// database name.
	blockDbNamePrefix = "blocks"
)

// LoadBlockDB loads (or creates when needed) the database holding the chain
// info and blocks, taking into account the selected database backend.
func LoadBlockDB(cfg *config.Config) (database.DB, error) {
	// The database name is based on the database type.
	dbPath := blockDbPath(cfg.DbType, cfg)

	log.Info("Loading block database", "dbType", cfg.DbType, "dbPath", dbPath)
	db, err := database.Open(cfg.DbType, dbPath)
	if err != nil {
		// Return the error if it's not because the database doesn't
		// exist.
		if !database.IsErrorCode(err, database.ErrDbDoesNotExist) {
			return nil, err
		}
		// Create the db if it does not exist.
		err = os.MkdirAll(cfg.DataDir, 0700)
		if err != nil {
			return nil, err
		}
		db, err = database.Create(cfg.DbType, dbPath)
		if err != nil {
			return nil, err
		}
	}
	log.Info("Block database loaded")
	return db, nil
}

// blockDbPath returns the path to the block database given a database type.
func blockDbPath(dbType string, cfg *config.Config) string {
	// The database name is based on the database type.
	dbName := blockDbNamePrefix + "_" + dbType
	return filepath.Join(cfg.DataDir, dbName)
}

// RemoveBlockDB removes the database of the configured type.
func RemoveBlockDB(cfg *config.Config) error {
	dbPath := blockDbPath(cfg.DbType, cfg)
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	log.Info(fmt.Sprintf("Removing block database from '%s'", dbPath))
	return os.RemoveAll(dbPath)
}
