// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package level loggers over go-ethereum's log.
//
// Loggers created by WithContext follow the root logger, so they can be declared as package
// variables before SetDefault is called.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

// Levels.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

type bound struct {
	root   ethlog.Logger
	logger ethlog.Logger
}

type contextLogger struct {
	ctx   []any
	cache atomic.Pointer[bound]
}

// WithContext returns a logger carrying ctx on each record.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// Root returns a logger without context.
func Root() Logger {
	return &contextLogger{}
}

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// NewTerminalHandler returns a handler writing human readable records to w.
func NewTerminalHandler(w io.Writer, level slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(w, level, useColor)
}

// FromVerbosity converts a 0-5 verbosity to a level, 3 being info.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

func (l *contextLogger) get() ethlog.Logger {
	root := ethlog.Root()
	if b := l.cache.Load(); b != nil && b.root == root {
		return b.logger
	}
	logger := root
	if len(l.ctx) > 0 {
		logger = root.With(l.ctx...)
	}
	l.cache.Store(&bound{root, logger})
	return logger
}

func (l *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &contextLogger{ctx: append(merged, ctx...)}
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.get().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.get().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.get().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.get().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.get().Error(msg, ctx...) }
func (l *contextLogger) Crit(msg string, ctx ...any)  { l.get().Crit(msg, ctx...) }

func (l *contextLogger) Enabled(level slog.Level) bool {
	return l.get().Enabled(context.Background(), level)
}
