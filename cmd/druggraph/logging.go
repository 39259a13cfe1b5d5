package main

import (
	"io"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matsen/druggraph/internal/config"
)

// Rotation settings for the optional log file.
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// newLogger builds a logger writing to w at the configured level. When
// cfg.LogFile is set, output is also written to a rotating file; the
// returned cleanup function closes it.
func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, func(), error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level := log.InfoLevel
	if cfg.LogLevel != "" {
		var err error
		if level, err = log.ParseLevel(cfg.LogLevel); err != nil {
			return nil, nil, err
		}
	}
	logger.SetLevel(level)

	if cfg.LogFile == "" {
		logger.SetOutput(w)
		return logger, func() {}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
	}
	logger.SetOutput(io.MultiWriter(w, file))
	return logger, func() { file.Close() }, nil
}
