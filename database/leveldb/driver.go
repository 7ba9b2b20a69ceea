// Copyright (c) 2017-2018 The qitmeer developers

package leveldb

import (
	"fmt"

	"github.com/mestorlx/witnet-rust/database"
)

// createDBDriver is the callback provided during driver registration that
// creates, initializes, and opens a database for use.
func createDBDriver(args ...interface{}) (database.DB, error) {
	dbPath, err := database.ParseArgs("Create", args...)
	if err != nil {
		return nil, err
	}
	return openDB(dbPath, true)
}

// openDBDriver is the callback provided during driver registration that opens
// an existing database for use.
func openDBDriver(args ...interface{}) (database.DB, error) {
	dbPath, err := database.ParseArgs("Open", args...)
	if err != nil {
		return nil, err
	}
	return openDB(dbPath, false)
}

// memDBDriver ignores its path argument; every call returns an empty
// database that lives as long as the process.
func memDBDriver(args ...interface{}) (database.DB, error) {
	return newMemDB()
}

func init() {
	drivers := []database.Driver{
		{DbType: dbType, Create: createDBDriver, Open: openDBDriver},
		{DbType: memDbType, Create: memDBDriver, Open: memDBDriver},
	}
	for _, driver := range drivers {
		if err := database.RegisterDriver(driver); err != nil {
			panic(fmt.Sprintf("Failed to register database driver '%s': %v",
				driver.DbType, err))
		}
	}
}
