// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2013-2016 The btcsuite developers

package main

import (
	"os"
	"runtime"

	_ "github.com/mestorlx/witnet-rust/database/badgerdb"
	_ "github.com/mestorlx/witnet-rust/database/boltdb"
	_ "github.com/mestorlx/witnet-rust/database/leveldb"
	"github.com/mestorlx/witnet-rust/log"
	"github.com/mestorlx/witnet-rust/node"
)

func main() {
	// Work around defer not working after os.Exit()
	if err := witnetdMain(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// witnetdMain is the real main function for witnetd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func witnetdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	cfg, chainParams, _, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()
	useLoggers(chainParams.Name)

	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := interruptListener()
	defer log.Info("Shutdown complete")

	// Show version and home dir at startup.
	log.Info("System info", "Witnet Version", version(), "Go version", runtime.Version())
	log.Info("System info", "Home dir", cfg.HomeDir, "Network", chainParams.Name)

	if cfg.NoFileLogging {
		log.Info("File logging disabled")
	}

	// Load the block database.
	db, err := node.LoadBlockDB(cfg)
	if err != nil {
		log.Error("load block database", "error", err)
		return err
	}
	defer func() {
		// Ensure the database is sync'd and closed on shutdown.
		log.Info("Gracefully shutting down the database...")
		db.Close()
	}()

	// Return now if an interrupt signal was triggered.
	if interruptRequested(interrupt) {
		return nil
	}

	// Create node and start it.
	n, err := node.NewNode(cfg, db, chainParams)
	if err != nil {
		log.Error("Unable to create node", "error", err)
		return err
	}
	err = n.Start()
	if err != nil {
		log.Error("Unable to start node", "error", err)
		return err
	}
	defer func() {
		log.Info("Gracefully shutting down the node...")
		if err := n.Stop(); err != nil {
			log.Warn("node stop error", "error", err)
		}
		n.WaitForShutdown()
	}()

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}
