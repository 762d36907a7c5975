// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coldforge/evomin/pkg/capture"
)

var replayPath string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Print the frames recorded in a capture file",
	Long: `Reads a capture file written by monitor --capture or capture, and
prints each recorded event in order. No link is opened.`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayPath, "in", "capture.evomin", "Capture file to read")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(replayPath)
	if err != nil {
		return fmt.Errorf("open capture file: %w", err)
	}
	defer f.Close()

	reader := capture.NewReader(f)
	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read capture event %d: %w", count, err)
		}

		fmt.Printf("[%s] %s cmd=0x%02X valid=%t\n",
			event.Timestamp.Format("15:04:05.000"), event.Direction, event.Command, event.Valid)
		if len(event.Payload) > 0 {
			fmt.Printf("  payload: %x\n", event.Payload)
		}
		if len(event.Answer) > 0 {
			fmt.Printf("  answer:  %x\n", event.Answer)
		}
		count++
	}

	fmt.Printf("\n%d events replayed from %s\n", count, replayPath)
	return nil
}
