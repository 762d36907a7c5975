// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "fmt"

// FormatFrame formats a frame into a human-readable line plus a hex dump of
// its logical payload, in the same register as
// helios_protocol/formatter.go's FormatPacket/FormatPayload.
func FormatFrame(f *Frame) string {
	cmdName := FormatCommand(f.Command)
	payload := f.Payload()

	result := fmt.Sprintf("%s (0x%02X) len=%d crc=0x%02X valid=%t\n",
		cmdName, f.Command, f.ExpectedPayloadLength, f.CRC8, f.IsValid)

	if len(payload) > 0 {
		result += formatHexDump(payload)
	}
	if f.AnswerBuffer.Size() > 0 {
		result += "  Answer: " + formatHexDump(f.AnswerBuffer.Bytes())
	}
	return result
}

// FormatCommand returns the human-readable name for a command code.
func FormatCommand(command byte) string {
	switch command {
	case CmdReserved:
		return "RESERVED"
	case CmdSendIDN:
		return "SEND_IDN"
	default:
		return "UNKNOWN"
	}
}

func formatHexDump(payload []byte) string {
	result := "  Payload: "
	for i, b := range payload {
		if i > 0 && i%16 == 0 {
			result += "\n           "
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result + "\n"
}
