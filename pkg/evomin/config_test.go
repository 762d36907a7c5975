// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFileOverlaysOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evomin.json")
	contents := `{"frame":{"retry_count":5},"logging":{"use_logging":false,"file":"/tmp/evomin.log"}}`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(DefaultConfig(), path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.Frame.RetryCount != 5 {
		t.Errorf("RetryCount = %d, want 5", cfg.Frame.RetryCount)
	}
	if cfg.Logging.UseLogging {
		t.Error("UseLogging should have been overridden to false")
	}
	if cfg.Logging.File != "/tmp/evomin.log" {
		t.Errorf("Logging.File = %q, want /tmp/evomin.log", cfg.Logging.File)
	}
	// Fields the override file doesn't mention keep their default value.
	if cfg.Frame.BufferSize != DefaultBufferCapacity {
		t.Errorf("BufferSize = %d, want default %d", cfg.Frame.BufferSize, DefaultBufferCapacity)
	}
	if cfg.Interface.MaxQueuedFrames != 8 {
		t.Errorf("MaxQueuedFrames = %d, want default 8", cfg.Interface.MaxQueuedFrames)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(DefaultConfig(), "/nonexistent/evomin.json"); err == nil {
		t.Error("expected an error loading a nonexistent config file")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Frame.RetryCount == 0 {
		t.Error("DefaultConfig should set a nonzero retry count")
	}
	if cfg.Interface.ResendMinTime != 50*time.Millisecond {
		t.Errorf("ResendMinTime = %v, want 50ms", cfg.Interface.ResendMinTime)
	}
}
