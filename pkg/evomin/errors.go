// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "errors"

// Sentinel errors for ByteBuffer and send-queue operations (spec §7).
var (
	ErrBufferFull  = errors.New("evomin: buffer full")
	ErrBufferEmpty = errors.New("evomin: buffer empty")
	ErrOutOfRange  = errors.New("evomin: value out of range 0..255")
	ErrQueueFull   = errors.New("evomin: send queue full")
)

// AnomalyType classifies the frame-level errors the receive state machine
// and engine can raise. Modeled on helios_protocol's ValidationError: a
// typed error with a kind and a human-readable message, rather than one
// error string per failure site.
type AnomalyType int

const (
	// AnomalyFraming covers SOF mismatches in IDLE/SOF1/SOF2 and any push
	// into a full buffer while assembling a frame.
	AnomalyFraming AnomalyType = iota
	// AnomalyCRCMismatch is a received CRC differing from the computed one.
	AnomalyCRCMismatch
	// AnomalyRetriesExhausted is an outgoing frame dropped after its last
	// retry went unacknowledged.
	AnomalyRetriesExhausted
)

// FrameError is the error kind surfaced to the application/log from inside
// poll(). It never escapes poll() uncaught (spec §7): it always results in
// an IDLE reset plus a log entry.
type FrameError struct {
	Type    AnomalyType
	Message string
}

func (e *FrameError) Error() string {
	return e.Message
}

func newFramingError(msg string) *FrameError {
	return &FrameError{Type: AnomalyFraming, Message: msg}
}

func newCRCMismatchError(expected, got byte) *FrameError {
	return &FrameError{
		Type:    AnomalyCRCMismatch,
		Message: "CRC8 failed: expected 0x" + hexByte(expected) + ", got 0x" + hexByte(got),
	}
}

func newRetriesExhaustedError(command byte) *FrameError {
	return &FrameError{
		Type:    AnomalyRetriesExhausted,
		Message: "retries exhausted for command 0x" + hexByte(command) + ", dropping frame",
	}
}

const hexDigits = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
