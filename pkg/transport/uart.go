// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// OpenUART opens a serial port and wraps it as a StreamPort, generalizing
// cmd/connection.go's OpenSerialConnection/SerialConnection.
func OpenUART(portName string, baudRate int) (*StreamPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	return NewStreamPort(port), nil
}
