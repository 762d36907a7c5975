// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

// Package telemetry mirrors evomin frame traffic and engine statistics into
// Redis, so a dashboard or a fleet-monitoring tool can watch a link without
// attaching directly to the device. This has no teacher counterpart —
// Thermoquad-heliostat talks straight to a terminal/TUI — so it is
// grounded on librescoot-bluetooth-service/pkg/redis/client.go's
// hash-write-plus-publish shape instead.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coldforge/evomin/pkg/evomin"
)

// Mirror publishes frame and statistics updates to Redis under a single
// link name.
type Mirror struct {
	client *redis.Client
	ctx    context.Context
	link   string
}

// NewMirror connects to addr and verifies reachability with a Ping,
// following client.go's New.
func NewMirror(addr, password string, db int, link string) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Mirror{client: client, ctx: ctx, link: link}, nil
}

func (m *Mirror) hashKey() string {
	return fmt.Sprintf("evomin:%s", m.link)
}

// MirrorFrame writes a delivered or sent frame's summary to the link's hash
// and publishes it on the link's channel.
func (m *Mirror) MirrorFrame(direction string, f *evomin.Frame) error {
	key := m.hashKey()
	value := fmt.Sprintf("cmd=0x%02X len=%d valid=%t", f.Command, f.ExpectedPayloadLength, f.IsValid)

	pipe := m.client.Pipeline()
	pipe.HSet(m.ctx, key, direction, value)
	pipe.Publish(m.ctx, key, fmt.Sprintf("%s:%s", direction, value))
	_, err := pipe.Exec(m.ctx)
	return err
}

// MirrorStats writes the current counters to the link's hash.
func (m *Mirror) MirrorStats(s *evomin.Statistics) error {
	key := m.hashKey()
	pipe := m.client.Pipeline()
	pipe.HSet(m.ctx, key, "frames_delivered", s.FramesDelivered)
	pipe.HSet(m.ctx, key, "frames_sent", s.FramesSent)
	pipe.HSet(m.ctx, key, "framing_errors", s.FramingErrors)
	pipe.HSet(m.ctx, key, "crc_errors", s.CRCErrors)
	pipe.HSet(m.ctx, key, "retries_exhausted", s.RetriesExhausted)
	pipe.HSet(m.ctx, key, "frame_rate", fmt.Sprintf("%.2f", s.FrameRate))
	_, err := pipe.Exec(m.ctx)
	return err
}

// Run periodically mirrors the statistics returned by getStats until ctx is
// done.
func (m *Mirror) Run(ctx context.Context, getStats func() *evomin.Statistics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = m.MirrorStats(getStats())
		}
	}
}

// Close closes the Redis connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}
