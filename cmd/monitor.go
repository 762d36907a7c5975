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
	"github.com/coldforge/evomin/pkg/telemetry"
)

var (
	monitorCapturePath string
	monitorTUI         bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Continuously decode and print evomin frames from a link",
	Long: `Opens the configured link, drives the evomin engine's poll loop, and
prints each delivered frame in human-readable form, following the same
continuous-decode idiom as the original raw packet log command.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorCapturePath, "capture", "", "Append every delivered frame to this capture file")
	monitorCmd.Flags().BoolVar(&monitorTUI, "tui", false, "Use the interactive terminal dashboard instead of plain output")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
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

	engine := evomin.NewEngine(cfg, port, logger)

	var capWriter *capture.Writer
	if monitorCapturePath != "" {
		f, err := os.OpenFile(monitorCapturePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open capture file: %w", err)
		}
		defer f.Close()
		capWriter = capture.NewWriter(f)
		defer capWriter.Flush()
	}

	var mirror *telemetry.Mirror
	if redisAddr != "" {
		mirror, err = telemetry.NewMirror(redisAddr, "", 0, redisLink)
		if err != nil {
			return fmt.Errorf("connect telemetry mirror: %w", err)
		}
		defer mirror.Close()
	}

	recordFrame := func(f *evomin.Frame) {
		if capWriter != nil {
			_ = capWriter.Write(capture.EventFromFrame(capture.DirectionReceived, f))
		}
		if mirror != nil {
			_ = mirror.MirrorFrame("rx", f)
		}
	}

	if monitorTUI {
		engine.OnFrameReceived(func(f *evomin.Frame, reply evomin.ReplyFunc) {
			recordFrame(f)
		})
		return runTUI(desc, engine)
	}

	engine.OnFrameReceived(func(f *evomin.Frame, reply evomin.ReplyFunc) {
		fmt.Print(evomin.FormatFrame(f))
		recordFrame(f)
	})

	fmt.Printf("evomin - Monitor\n")
	fmt.Printf("Link: %s\n", desc)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	for {
		if err := engine.Poll(); err != nil {
			return fmt.Errorf("link closed: %w", err)
		}
		time.Sleep(time.Millisecond)
	}
}
