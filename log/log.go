// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured loggers on top of log/slog.
// Packages acquire a scoped logger once at init time:
//
//	var logger = log.WithContext("pkg", "staking")
package log

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the leveled, key/value structured logger of the ledger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l *logger) With(args ...any) Logger {
	return &logger{inner: l.inner.With(args...)}
}

var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(DiscardHandler()))
}

// SetDefault sets the handler all scoped loggers write through.
func SetDefault(handler slog.Handler) {
	root.Store(slog.New(handler))
}

// WithContext returns a logger carrying the given context pairs.
func WithContext(args ...any) Logger {
	return &logger{inner: root.Load().With(args...)}
}

// NewTerminalHandlerWithLevel returns a stderr handler honoring the level.
func NewTerminalHandlerWithLevel(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

// NewJSONHandler returns a stderr handler emitting one JSON object per record.
func NewJSONHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
