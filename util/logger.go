package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// NewLogger creates a logfmt logger writing to dir/<prefix>_<timestamp>.log.
// The console belongs to the menu, so nothing is written to stdout.
// The returned closer releases the log file.
func NewLogger(dir, prefix, minLevel string) (gokitlog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(dir, fmt.Sprintf("%s_%s.log", prefix, timestamp))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWriterLogger(file, minLevel), file, nil
}

// NewWriterLogger builds the same logger over an arbitrary writer.
// Every line carries a session id so runs sharing a log can be told apart.
func NewWriterLogger(w io.Writer, minLevel string) gokitlog.Logger {
	logger := gokitlog.NewLogfmtLogger(gokitlog.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(minLevel))
	return gokitlog.With(logger,
		"ts", gokitlog.DefaultTimestampUTC,
		"caller", gokitlog.DefaultCaller,
		"session", uuid.NewString(),
	)
}

func levelOption(minLevel string) level.Option {
	switch minLevel {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// TimeFunction wraps a function with timing information
func TimeFunction(logger gokitlog.Logger, name string, fn func() error) error {
	startTime := time.Now()
	level.Debug(logger).Log("msg", fmt.Sprintf("Starting %s", name))

	err := fn()

	elapsed := time.Since(startTime)
	if err != nil {
		level.Warn(logger).Log("msg", fmt.Sprintf("Completed %s with error", name), "err", err, "took", elapsed)
	} else {
		level.Info(logger).Log("msg", fmt.Sprintf("Completed %s successfully", name), "took", elapsed)
	}

	return err
}
