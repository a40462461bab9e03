// Package xlog provides the process-wide structured logger.
//
// Library packages (tokenize, vocab, tfidf, sparse, svd, query, persist)
// never import this package directly — they report warnings and errors
// through typed return values. Only internal/engine, internal/cli and
// internal/httpapi log, so the logging backend can change without
// touching the algorithmic core.
package xlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = newDefault()
)

func newDefault() zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).With().Timestamp().Logger()
}

// SetOutput redirects the logger to w, using the raw JSON writer rather
// than the console pretty-printer. Tests use this to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the global minimum log level (e.g. zerolog.DebugLevel).
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(level)
}

// Logger returns the current process logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}
