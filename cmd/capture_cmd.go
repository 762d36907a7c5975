// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldforge/evomin/pkg/capture"
	"github.com/coldforge/evomin/pkg/evomin"
)

var captureOutPath string

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record every delivered frame on a link to a file",
	Long: `Like monitor, but prints no frames to stdout (only a short header):
every delivered frame, and the answer bytes of any master-slave reply, is
appended to --out as a capture.Event, for later inspection with replay.`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureOutPath, "out", "capture.evomin", "Capture file to write")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	port, desc, err := openPort()
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger, err := evomin.NewLogger(cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(captureOutPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open capture file: %w", err)
	}
	defer f.Close()

	writer := capture.NewWriter(f)
	defer writer.Flush()

	engine := evomin.NewEngine(cfg, port, logger)
	engine.OnFrameReceived(func(frame *evomin.Frame, reply evomin.ReplyFunc) {
		_ = writer.Write(capture.EventFromFrame(capture.DirectionReceived, frame))
	})
	engine.OnReplyReceived(func(payload []byte) {
		_ = writer.Write(capture.Event{
			Timestamp: time.Now(),
			Direction: capture.DirectionSent,
			Answer:    payload,
		})
	})

	fmt.Printf("evomin - Capture\n")
	fmt.Printf("Link: %s\n", desc)
	fmt.Printf("Writing to: %s\n", captureOutPath)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	for {
		if err := engine.Poll(); err != nil {
			return fmt.Errorf("link closed: %w", err)
		}
		time.Sleep(time.Millisecond)
	}
}
