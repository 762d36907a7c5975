// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldforge/evomin/pkg/evomin"
)

var selftestTimeout time.Duration

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Wait for the first valid frame on a link and report it",
	Long: `Opens the configured link and drives the engine until either a frame
is delivered or --timeout elapses.

Useful for verifying wiring and baud/framing settings before running
monitor or send against real hardware.

Exit codes:
  0 - a valid frame was delivered before the timeout
  1 - timeout reached without a valid frame, or a connection error`,
	RunE: runSelftest,
}

func init() {
	selftestCmd.Flags().DurationVar(&selftestTimeout, "timeout", 10*time.Second, "How long to wait for a frame")
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) error {
	port, desc, err := openPort()
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	engine := evomin.NewEngine(cfg, port, nil)

	fmt.Printf("evomin - Self Test\n")
	fmt.Printf("Link: %s\n", desc)
	fmt.Printf("Waiting for a valid frame (timeout %s)...\n\n", selftestTimeout)

	delivered := make(chan *evomin.Frame, 1)
	engine.OnFrameReceived(func(f *evomin.Frame, reply evomin.ReplyFunc) {
		select {
		case delivered <- f:
		default:
		}
	})

	deadline := time.Now().Add(selftestTimeout)
	for time.Now().Before(deadline) {
		if err := engine.Poll(); err != nil {
			return fmt.Errorf("link closed: %w", err)
		}

		select {
		case f := <-delivered:
			fmt.Print(evomin.FormatFrame(f))
			stats := engine.Stats()
			fmt.Printf("\nSUCCESS: received a valid frame (%d framing errors, %d CRC errors along the way)\n",
				stats.FramingErrors, stats.CRCErrors)
			return nil
		default:
		}

		time.Sleep(time.Millisecond)
	}

	return fmt.Errorf("timeout: no valid frame received within %s", selftestTimeout)
}
