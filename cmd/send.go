// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldforge/evomin/pkg/evomin"
)

var (
	sendCommand    uint8
	sendPayloadHex string
	sendTimeout    time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single evomin frame and print any reply",
	Long: `Builds one outgoing frame from --command and --payload, enqueues it on
the engine, and drives the poll loop until it is acknowledged (or until
--timeout elapses), printing any master-slave reply bytes received.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().Uint8Var(&sendCommand, "command", 0, "Command byte (decimal or 0x-prefixed)")
	sendCmd.Flags().StringVar(&sendPayloadHex, "payload", "", "Payload as a hex string, e.g. deadbeef")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 5*time.Second, "Give up waiting for an ack/reply after this long")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	payload, err := hex.DecodeString(sendPayloadHex)
	if err != nil {
		return fmt.Errorf("invalid --payload hex: %w", err)
	}

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

	replied := make(chan []byte, 1)
	engine.OnReplyReceived(func(payload []byte) {
		replied <- payload
	})

	if err := engine.Send(sendCommand, payload); err != nil {
		return fmt.Errorf("enqueue frame: %w", err)
	}

	fmt.Printf("Link: %s\n", desc)
	fmt.Printf("Sending command 0x%02X, %d byte payload\n", sendCommand, len(payload))

	deadline := time.Now().Add(sendTimeout)
	for time.Now().Before(deadline) {
		if err := engine.Poll(); err != nil {
			return fmt.Errorf("link closed: %w", err)
		}

		select {
		case reply := <-replied:
			fmt.Printf("Reply: %x\n", reply)
			return nil
		default:
		}

		if engine.QueueLen() == 0 && engine.State() == evomin.StateIdle && engine.Stats().FramesSent > 0 {
			fmt.Println("Sent, no reply expected on this link")
			return nil
		}

		time.Sleep(time.Millisecond)
	}

	return fmt.Errorf("timed out waiting for acknowledgement")
}
