/*
 * Copyright (c) 2017-2020 The qitmeer developers
 */

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	elog "github.com/ethereum/go-ethereum/log"
	"github.com/jrick/logrotate/rotator"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type (
	Logger      = elog.Logger
	Ctx         = elog.Ctx
	Lvl         = elog.Lvl
	Handler     = elog.Handler
	Format      = elog.Format
	GlogHandler = elog.GlogHandler
)

const (
	LvlCrit  = elog.LvlCrit
	LvlError = elog.LvlError
	LvlWarn  = elog.LvlWarn
	LvlInfo  = elog.LvlInfo
	LvlDebug = elog.LvlDebug
	LvlTrace = elog.LvlTrace
)

var (
	New            = elog.New
	Root           = elog.Root
	Trace          = elog.Trace
	Debug          = elog.Debug
	Info           = elog.Info
	Warn           = elog.Warn
	Error          = elog.Error
	Crit           = elog.Crit
	LvlFromString  = elog.LvlFromString
	PrintOrigins   = elog.PrintOrigins
	StreamHandler  = elog.StreamHandler
	TerminalFormat = elog.TerminalFormat
	NewGlogHandler = elog.NewGlogHandler
	DiscardHandler = elog.DiscardHandler
)

// Rotation settings of the log file: roll at 10 MiB, keep three rolled files.
const (
	rotateThresholdKB = 10 * 1024
	rotateMaxRolls    = 3
)

var (
	glogger *GlogHandler
	output  = newWriter()
)

// writer fans every record out to the terminal and, once InitLogRotator ran,
// to the rotating log file.
type writer struct {
	rotator  *rotator.Rotator
	terminal io.Writer
	color    bool
}

func newWriter() *writer {
	w := &writer{terminal: os.Stderr}
	if isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb" {
		w.terminal = colorable.NewColorableStderr()
		w.color = true
	}
	return w
}

func (w *writer) Write(p []byte) (int, error) {
	if w.rotator != nil {
		w.rotator.Write(p)
	}
	return w.terminal.Write(p)
}

func init() {
	// Stderr keeps daemon output and runtime panics in the same stream.
	glogger = NewGlogHandler(StreamHandler(output, TerminalFormat(output.color)))
	Root().SetHandler(glogger)
	glogger.Verbosity(LvlInfo)
}

// InitLogRotator makes the logger also write to logFile, rolling it over in
// the same directory.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, rotateThresholdKB, false, rotateMaxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	output.rotator = r
	return nil
}

// Close flushes and closes the log file, if any.
func Close() {
	if output.rotator != nil {
		output.rotator.Close()
		output.rotator = nil
	}
}

// SetLevel parses a level name and applies it to the root handler.
func SetLevel(level string) error {
	lvl, err := LvlFromString(level)
	if err != nil {
		return err
	}
	glogger.Verbosity(lvl)
	return nil
}
