// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"github.com/ipfs/go-log"
)

const loggerName = "tss-core"

var Logger = log.Logger(loggerName)

// SetLogLevel adjusts the verbosity of the package logger, e.g. "debug", "info", "error".
func SetLogLevel(level string) error {
	return log.SetLogLevel(loggerName, level)
}
