// Copyright (c) 2017-2018 The qitmeer developers

package config

// Config holds every option of the daemon.  Field tags are read by
// github.com/jessevdk/go-flags for both the command line and the INI file.
type Config struct {
	HomeDir           string `short:"A" long:"appdata" description:"Path to application home directory"`
	ShowVersion       bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile        string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir           string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir            string `long:"logdir" description:"Directory to log output."`
	NoFileLogging     bool   `long:"nofilelogging" description:"Disable file logging."`
	DebugLevel        string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, crit} "`
	DebugPrintOrigins bool   `long:"printorigin" description:"Print log debug location (file:line) "`
	DbType            string `long:"dbtype" description:"Database backend to use for the chain state {leveldb, boltdb, badgerdb, memdb}"`
	TestNet           bool   `long:"testnet" description:"Use the test network"`
	PrivNet           bool   `long:"privnet" description:"Use the private network"`

	// Epoch clock overrides, only honoured on the private network.
	CheckpointZero   int64  `long:"checkpointzero" description:"Unix timestamp of epoch 0 (privnet only)"`
	CheckpointPeriod uint16 `long:"checkpointperiod" description:"Epoch duration in seconds (privnet only)"`

	// Block manager
	PersistBlocks bool   `long:"persistblocks" description:"Write every accepted block to the database and reload the chain tip block at start up"`
	RetainEpochs  uint32 `long:"retainepochs" description:"Drop non-canonical candidates this many epochs after consolidation (0 keeps every candidate)"`
	MsgQueueSize  int    `long:"msgqueuesize" description:"Length of the request queue of the block and storage managers"`

	// Metrics
	Metrics       bool   `long:"metrics" description:"Enable metrics collection"`
	MetricsListen string `long:"metricslisten" description:"Serve collected metrics as expvar json on this [addr:]port"`
}
