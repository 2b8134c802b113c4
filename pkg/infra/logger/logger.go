package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

type Options struct {
	Level       string
	FileEnabled bool
}

// OptionsFromEnv reads LOG_LEVEL and LOG_TO_FILE (default true).
func OptionsFromEnv() Options {
	return Options{
		Level:       os.Getenv("LOG_LEVEL"),
		FileEnabled: os.Getenv("LOG_TO_FILE") != "false",
	}
}

// NewLogger builds the JSON logger for serviceName. Entries go to
// logs/<serviceName>.log through an AsyncFileWriter and to stdout through an
// AsyncConsoleHook. The returned func flushes both.
func NewLogger(serviceName string, opts Options) (*logrus.Logger, func(), error) {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	consoleHook := NewAsyncConsoleHook(os.Stdout, 1000)
	logger.AddHook(consoleHook)

	if !opts.FileEnabled {
		logger.SetOutput(io.Discard)
		return logger, consoleHook.Close, nil
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile := filepath.Join(logDir, filepath.Base(serviceName)+".log")
	fileWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(fileWriter)

	return logger, func() {
		consoleHook.Close()
		fileWriter.Close()
	}, nil
}
