package common

import (
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoggerWrapper keeps the verbosity-gated shape of the teacher's logger
// (internal/common/logger.go in VKCOM/nocc) but backs it with logrus, so
// every call carries structured fields instead of a flattened Sprintln.
type LoggerWrapper struct {
	impl      *logrus.Logger
	fileName  string
	verbosity int
}

func MakeLogger(logFile string, verbosity int64, noLogsIfEmpty bool) (*LoggerWrapper, error) {
	if verbosity < -1 || verbosity > 2 {
		return nil, errors.New("incorrect verbosity passed")
	}

	impl := logrus.New()
	impl.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case logFile != "" && logFile != "stderr":
		out, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
		impl.SetOutput(out)
	case noLogsIfEmpty:
		impl.SetOutput(io.Discard)
	default:
		impl.SetOutput(os.Stderr)
	}

	return &LoggerWrapper{impl: impl, fileName: logFile, verbosity: int(verbosity)}, nil
}

// Info logs at the given verbosity tier; a build run at verbosity N sees
// every Info call made at tier <= N.
func (logger *LoggerWrapper) Info(verbosity int, msg string, fields logrus.Fields) {
	if logger.verbosity < verbosity {
		return
	}
	logger.impl.WithFields(fields).Info(msg)
}

func (logger *LoggerWrapper) Error(msg string, fields logrus.Fields) {
	logger.impl.WithFields(fields).Error(msg)
}

func (logger *LoggerWrapper) Warn(msg string, fields logrus.Fields) {
	logger.impl.WithFields(fields).Warn(msg)
}

func (logger *LoggerWrapper) RotateLogFile() error {
	if logger.fileName == "" {
		return nil
	}
	out, err := os.OpenFile(logger.fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	logger.impl.SetOutput(out)
	return nil
}

func (logger *LoggerWrapper) GetFileName() string {
	return logger.fileName
}

func (logger *LoggerWrapper) GetFileSize() int64 {
	if logger.fileName == "" {
		return 0
	}
	stat, err := os.Stat(logger.fileName)
	if err != nil {
		return 0
	}
	return stat.Size()
}
