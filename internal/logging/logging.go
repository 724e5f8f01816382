// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"devplace/internal/common/fsutil"
)

// Rotation settings for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 30
)

// Options selects the level and the outputs.
type Options struct {
	Level string
	// File, when set, receives JSON logs with size-based rotation.
	File string
	// Console is the human-readable output; defaults to stderr.
	Console io.Writer
	// JSON disables the console formatting.
	JSON bool
}

// Init parses the level, installs the global logger and returns it.
func Init(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if !opts.JSON {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"}
	}
	writers := []io.Writer{console}
	if opts.File != "" {
		path, err := fsutil.EnsureParentDir(opts.File)
		if err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = logger
	return logger, nil
}
