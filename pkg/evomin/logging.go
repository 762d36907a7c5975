// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import (
	"io"
	"log"
	"os"
)

// NewLogger builds the *log.Logger an Engine logs through, following
// cmd/error_detection.go and cmd/raw_log.go's plain log.Printf idiom
// rather than a structured logging framework. When cfg.Logging.UseLogging
// is false, the logger writes to io.Discard. When cfg.Logging.File is set,
// it opens that file for append (creating it if necessary) and logs
// there; otherwise it logs to stderr.
func NewLogger(cfg Config) (*log.Logger, error) {
	if !cfg.Logging.UseLogging {
		return log.New(io.Discard, "", 0), nil
	}

	out := io.Writer(os.Stderr)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		out = f
	}
	return log.New(out, "evomin: ", log.LstdFlags|log.Lmicroseconds), nil
}
