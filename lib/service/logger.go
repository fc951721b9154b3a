// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"log/slog"
	"os"
)

// NewLogger creates the standard Pakdepot server logger: a JSON
// handler writing to stderr at Info level, or Debug when the
// PAKDEPOT_DEBUG environment variable is non-empty. It also sets the
// default slog logger so that third-party code using slog.Info etc.
// gets the same handler.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("PAKDEPOT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
