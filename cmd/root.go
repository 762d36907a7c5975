// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	portName      string
	baudRate      int
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
	masterSlave   bool
	configFile    string
	useLogging    bool
	logFile       string

	redisAddr string
	redisLink string
)

var rootCmd = &cobra.Command{
	Use:   "evomin",
	Short: "evomin protocol analyzer and driver",
	Long: `evomin - a CLI tool for driving and monitoring the evomin framed byte
protocol over a serial or WebSocket-tunneled link.

Provides commands for live monitoring, one-shot frame sends, and
capture/replay of recorded traffic.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate")
	rootCmd.PersistentFlags().StringVar(&wsURL, "url", "", "WebSocket tunnel URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "ws-user", "", "WebSocket Basic auth username")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "ws-insecure", false, "Skip TLS verification for wss:// tunnels")
	rootCmd.PersistentFlags().BoolVar(&masterSlave, "master-slave", false, "Treat the link as master-slave clocked (e.g. simulated SPI)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON configuration file")
	rootCmd.PersistentFlags().BoolVar(&useLogging, "log", true, "Enable engine logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for telemetry mirroring (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&redisLink, "redis-link", "default", "Link name under which telemetry is mirrored")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
