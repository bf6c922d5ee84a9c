package common

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO        LogLevel = 2
	EXPR_DISPATCH     LogLevel = 4
	DEBUGGING         LogLevel = 8
	INFO              LogLevel = 16
	WARN              LogLevel = 32
	ERROR             LogLevel = 64
	FATAL             LogLevel = 128
)

var (
	loggerMu sync.Mutex
	logger   log.Logger = log.With(log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr)), "ts", log.DefaultTimestampUTC)
)

// SetLogger replaces destination of ShPrintf output. passing nil restores stderr logger.
func SetLogger(l log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = log.With(log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr)), "ts", log.DefaultTimestampUTC)
	}
	logger = l
}

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&LogLevelSetting == 0 {
		return
	}

	loggerMu.Lock()
	l := logger
	loggerMu.Unlock()

	msg := fmt.Sprintf(fmtStl, a...)
	switch {
	case logLevel >= ERROR:
		level.Error(l).Log("msg", msg)
	case logLevel == WARN:
		level.Warn(l).Log("msg", msg)
	case logLevel == INFO:
		level.Info(l).Log("msg", msg)
	default:
		level.Debug(l).Log("msg", msg)
	}
}
