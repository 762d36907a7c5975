// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldforge/evomin/pkg/evomin"
)

var (
	pingCount   int
	pingTimeout time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Measure round-trip time by repeatedly sending an empty frame",
	Long: `Sends --count zero-payload SEND_IDN frames, one at a time, and reports
the round-trip time to each ack/reply.

On a non-master-slave link this only waits for the AwaitingAck state
to clear; on a master-slave link it waits for the reply payload.

Exit codes:
  0 - all pings acknowledged
  1 - one or more pings timed out, or a connection error`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "Timeout per ping")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	port, desc, err := openPort()
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	engine := evomin.NewEngine(cfg, port, nil)

	replied := make(chan []byte, 1)
	engine.OnReplyReceived(func(payload []byte) {
		select {
		case replied <- payload:
		default:
		}
	})

	fmt.Printf("evomin - Ping\n")
	fmt.Printf("Link: %s\n", desc)
	fmt.Printf("Count: %d, timeout %s per ping\n\n", pingCount, pingTimeout)

	successCount := 0
	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		start := time.Now()
		sentBefore := engine.Stats().FramesSent
		if err := engine.Send(evomin.CmdSendIDN, nil); err != nil {
			fmt.Printf("SEND FAILED: %v\n", err)
			continue
		}

		deadline := start.Add(pingTimeout)
		ok := false
		for time.Now().Before(deadline) {
			if err := engine.Poll(); err != nil {
				return fmt.Errorf("link closed: %w", err)
			}

			select {
			case payload := <-replied:
				rtt := time.Since(start)
				fmt.Printf("reply=%x rtt=%v\n", payload, rtt.Round(time.Millisecond))
				ok = true
			default:
				if engine.QueueLen() == 0 && engine.State() == evomin.StateIdle && engine.Stats().FramesSent > sentBefore {
					rtt := time.Since(start)
					fmt.Printf("acked, no reply payload, rtt=%v\n", rtt.Round(time.Millisecond))
					ok = true
				}
			}
			if ok {
				break
			}
			time.Sleep(time.Millisecond)
		}

		if ok {
			successCount++
		} else {
			fmt.Printf("TIMEOUT (no ack in %s)\n", pingTimeout)
		}
	}

	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d pings sent, %d acknowledged, %.0f%% loss\n",
		pingCount, successCount, float64(pingCount-successCount)/float64(pingCount)*100)

	if successCount < pingCount {
		return fmt.Errorf("%d/%d pings unacknowledged", pingCount-successCount, pingCount)
	}
	return nil
}
