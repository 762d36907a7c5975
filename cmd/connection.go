// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"

	"github.com/coldforge/evomin/pkg/evomin"
	"github.com/coldforge/evomin/pkg/transport"
)

// openPort opens the evomin.Port described by the root command's persistent
// flags (serial or WebSocket tunnel), generalizing the old
// OpenConnection/Connection pair into the evomin.Port interface directly.
func openPort() (evomin.Port, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = transport.GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		port, err := transport.OpenWebSocketTunnel(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		if masterSlave {
			port.SetMasterSlave(true)
		}
		return port, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		port, err := transport.OpenUART(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		if masterSlave {
			port.SetMasterSlave(true)
		}
		return port, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// buildConfig assembles an evomin.Config from defaults, an optional JSON
// file, and the root command's persistent flags, in that overlay order
// (spec §9 design notes: construction-time config, never global state).
func buildConfig() (evomin.Config, error) {
	cfg := evomin.DefaultConfig()

	if configFile != "" {
		var err error
		cfg, err = evomin.LoadConfigFile(cfg, configFile)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.Logging.UseLogging = useLogging
	cfg.Logging.File = logFile

	return cfg, nil
}
