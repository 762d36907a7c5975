// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import (
	"encoding/json"
	"os"
	"time"
)

// Config is the construction-time configuration for a Frame/Engine (spec
// §6, §9 design notes — treated as a struct, never process-wide state).
type Config struct {
	Frame struct {
		BufferSize int  `json:"buffer_size"`
		RetryCount byte `json:"retry_count"`
	} `json:"frame"`

	Interface struct {
		MaxQueuedFrames int           `json:"max_queued_frames"`
		ResendMinTime   time.Duration `json:"resend_min_time"`
	} `json:"interface"`

	Logging struct {
		UseLogging bool   `json:"use_logging"`
		File       string `json:"file"`
	} `json:"logging"`
}

// DefaultConfig returns the configuration evomin uses when no overrides are
// supplied: a buffer large enough for a full-length payload plus
// stuff-byte headroom, three retries, an eight-frame send queue, and a
// 50ms minimum resend interval.
func DefaultConfig() Config {
	var cfg Config
	cfg.Frame.BufferSize = DefaultBufferCapacity
	cfg.Frame.RetryCount = 3
	cfg.Interface.MaxQueuedFrames = 8
	cfg.Interface.ResendMinTime = 50 * time.Millisecond
	cfg.Logging.UseLogging = true
	return cfg
}

// LoadConfigFile overlays JSON-file configuration onto cfg. Any field
// absent from the file keeps cfg's existing value.
func LoadConfigFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
