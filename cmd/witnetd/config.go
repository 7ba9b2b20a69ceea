// Copyright (c) 2017-2018 The qitmeer developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2013-2016 The btcsuite developers

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mestorlx/witnet-rust/common/util"
	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/log"
	"github.com/mestorlx/witnet-rust/params"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

const (
	defaultConfigFilename    = "witnet.conf"
	defaultDataDirname       = "data"
	defaultLogLevel          = "info"
	defaultDebugPrintOrigins = false
	defaultLogDirname        = "logs"
	defaultLogFilename       = "witnetd.log"
	defaultDbType            = "leveldb"
	defaultRetainEpochs      = 0
	defaultMetricsListen     = ""
)

var (
	defaultHomeDir    = util.AppDataDir("witnetd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// loadConfig initializes and parses the config using a config file and command
// line options.  It also selects the network and initializes logging.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func loadConfig() (*config.Config, *params.Params, []string, error) {
	// Default config.
	cfg := config.Config{
		HomeDir:           defaultHomeDir,
		ConfigFile:        defaultConfigFile,
		DebugLevel:        defaultLogLevel,
		DebugPrintOrigins: defaultDebugPrintOrigins,
		DataDir:           defaultDataDir,
		LogDir:            defaultLogDir,
		DbType:            defaultDbType,
		RetainEpochs:      defaultRetainEpochs,
		MsgQueueSize:      storagemgr.DefaultQueueSize,
		MetricsListen:     defaultMetricsListen,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		} else if ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s)\n", appName, version(), runtime.Version())
		os.Exit(0)
	}

	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)

	// Update the home directory if specified.  Since the home directory is
	// updated, other variables need to be updated to reflect the new
	// changes.
	if preCfg.HomeDir != "" {
		cfg.HomeDir, _ = filepath.Abs(preCfg.HomeDir)

		if preCfg.ConfigFile == defaultConfigFile {
			preCfg.ConfigFile = filepath.Join(cfg.HomeDir, defaultConfigFilename)
		}
		cfg.ConfigFile = preCfg.ConfigFile
		if preCfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		} else {
			cfg.DataDir = preCfg.DataDir
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		} else {
			cfg.LogDir = preCfg.LogDir
		}
	}

	// Load additional config from file.
	var configFileError error
	parser := newConfigParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config "+
				"file: %v\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, nil, err
	}

	// Create the home directory if it doesn't already exist.
	funcName := "loadConfig"
	err = os.MkdirAll(cfg.HomeDir, 0700)
	if err != nil {
		// Show a nicer error message if it's because a symlink is
		// linked to a directory that does not exist (probably because
		// it's not mounted).
		if e, ok := err.(*os.PathError); ok && os.IsExist(err) {
			if link, lerr := os.Readlink(e.Path); lerr == nil {
				str := "is symlink %s -> %s mounted?"
				err = fmt.Errorf(str, e.Path, link)
			}
		}
		str := "%s: failed to create home directory: %v"
		err := fmt.Errorf(str, funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, nil, err
	}

	chainParams, err := selectNetwork(&cfg)
	if err != nil {
		err := fmt.Errorf("%s: %v", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, nil, err
	}

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "%s: the specified database type [%v] is invalid -- " +
			"supported types %v"
		err := fmt.Errorf(str, funcName, cfg.DbType, database.SupportedDrivers())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, nil, err
	}

	// Append the network type to the data directory so it is "namespaced"
	// per network.
	cfg.DataDir = util.CleanAndExpandPath(cfg.DataDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, chainParams.Name)

	// Set logging file if presented
	if !cfg.NoFileLogging {
		// Append the network type to the log directory so it is "namespaced"
		// per network in the same fashion as the data directory.
		cfg.LogDir = util.CleanAndExpandPath(cfg.LogDir)
		cfg.LogDir = filepath.Join(cfg.LogDir, chainParams.Name)

		// Initialize log rotation.  After log rotation has been initialized, the
		// logger variables may be used.
		if err := log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, nil, err
		}
	}

	// Parse, validate, and set debug log level.
	if err := log.SetLevel(cfg.DebugLevel); err != nil {
		str := "%s: the specified debug level [%v] is invalid"
		err := fmt.Errorf(str, funcName, cfg.DebugLevel)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, nil, err
	}

	// DebugPrintOrigins
	if cfg.DebugPrintOrigins {
		log.PrintOrigins(true)
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid
	// options.  Note this should go directly before the return.
	if configFileError != nil {
		log.Warn("missing config file", "error", configFileError)
	}

	return &cfg, chainParams, remainingArgs, nil
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *config.Config, options flags.Options) *flags.Parser {
	parser := flags.NewParser(cfg, options)
	return parser
}

// selectNetwork assigns the active network params and returns a copy with
// the private network epoch overrides applied.
func selectNetwork(cfg *config.Config) (*params.Params, error) {
	numNets := 0
	params.ActiveNetParams = &params.MainNetParam
	if cfg.TestNet {
		numNets++
		params.ActiveNetParams = &params.TestNetParam
	}
	if cfg.PrivNet {
		numNets++
		params.ActiveNetParams = &params.PrivNetParam
	}
	// Multiple networks can't be selected simultaneously.
	if numNets > 1 {
		return nil, fmt.Errorf("the testnet and privnet params can't be " +
			"used together -- choose one")
	}

	chainParams := *params.ActiveNetParams.Params
	if cfg.CheckpointZero != 0 || cfg.CheckpointPeriod != 0 {
		if !cfg.PrivNet {
			return nil, fmt.Errorf("--checkpointzero and --checkpointperiod " +
				"are only allowed with --privnet")
		}
		if cfg.CheckpointZero != 0 {
			chainParams.CheckpointZeroTimestamp = cfg.CheckpointZero
		}
		if cfg.CheckpointPeriod != 0 {
			chainParams.CheckpointsPeriod = time.Duration(cfg.CheckpointPeriod) * time.Second
		}
	}
	return &chainParams, nil
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range database.SupportedDrivers() {
		if dbType == knownType {
			return true
		}
	}

	return false
}
