// Copyright (c) 2017-2018 The qitmeer developers

package boltdb

import (
	"fmt"

	"github.com/mestorlx/witnet-rust/database"
)

func createDBDriver(args ...interface{}) (database.DB, error) {
	dbPath, err := database.ParseArgs("Create", args...)
	if err != nil {
		return nil, err
	}
	return openDB(dbPath, true)
}

func openDBDriver(args ...interface{}) (database.DB, error) {
	dbPath, err := database.ParseArgs("Open", args...)
	if err != nil {
		return nil, err
	}
	return openDB(dbPath, false)
}

func init() {
	driver := database.Driver{
		DbType: dbType,
		Create: createDBDriver,
		Open:   openDBDriver,
	}
	if err := database.RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("Failed to register database driver '%s': %v",
			dbType, err))
	}
}
