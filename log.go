package main

import (
	"fmt"
	"os"

	"github.com/F3dosik/spnlc/attack"
	"github.com/F3dosik/spnlc/corpus"
	"github.com/F3dosik/spnlc/keygen"
	"github.com/F3dosik/spnlc/lat"
	"github.com/F3dosik/spnlc/params"
	"github.com/F3dosik/spnlc/spn"
	"github.com/btcsuite/btclog/v2"
)

// Subsystem defines the logging code for the command itself.
const Subsystem = "SPNL"

var (
	logHandler = btclog.NewDefaultHandler(os.Stderr)
	rootLogger = btclog.NewSLogger(logHandler)

	log = rootLogger.SubSystem(Subsystem)
)

// subsystemLoggers maps each library subsystem to its logger setter.
var subsystemLoggers = map[string]func(btclog.Logger){
	spn.Subsystem:    spn.UseLogger,
	lat.Subsystem:    lat.UseLogger,
	attack.Subsystem: attack.UseLogger,
	keygen.Subsystem: keygen.UseLogger,
	corpus.Subsystem: corpus.UseLogger,
	params.Subsystem: params.UseLogger,
}

// setLogLevels attaches a sub logger at the given level to every
// subsystem.
func setLogLevels(debugLevel string) error {
	level, ok := btclog.LevelFromString(debugLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q", debugLevel)
	}

	log.SetLevel(level)
	for tag, useLogger := range subsystemLoggers {
		logger := rootLogger.SubSystem(tag)
		logger.SetLevel(level)
		useLogger(logger)
	}

	return nil
}

// traceLogger returns an SPN logger that shows every round step.
func traceLogger() btclog.Logger {
	logger := rootLogger.SubSystem(spn.Subsystem)
	logger.SetLevel(btclog.LevelTrace)
	return logger
}
