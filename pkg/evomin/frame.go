// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "time"

// Frame is the encoded/decoded unit of the evomin protocol: a command, a
// payload (wire-form with stuff bytes on outgoing frames, logical on
// received frames, whose stuff bytes are discarded as they arrive), a CRC,
// an answer buffer for master-slave replies, and retry bookkeeping for
// outgoing frames.
// Grounded on the original EvominFrame (command/payload_buffer/crc8/
// retries_left/last_byte/last_byte_was_stfbyt), with outgoing-frame
// command clamping actually implemented (the Python original's
// `command in [EvominFrameCommandType]` check is a no-op bug — it tests
// membership in a one-element list containing the class object itself,
// which is never true for an int).
type Frame struct {
	Command               byte
	PayloadBuffer         *ByteBuffer
	ExpectedPayloadLength byte
	AnswerBuffer          *ByteBuffer
	CRC8                  byte
	IsValid               bool
	IsSent                bool
	RetriesLeft           byte

	PreviousSendTimestamp time.Time

	// Decoder scratch state (only meaningful while a frame is being
	// received; see state.go stepPayld).
	LastByte         byte
	LastByteWasStuff bool
}

// NewOutgoingFrame builds a Frame ready to be enqueued and transmitted.
// The payload is stuff-byte encoded for the wire; expected_payload_length
// is set to the pre-stuffing logical length, and the CRC is computed over
// [command, logical length, logical payload] (spec §4.2). command is
// clamped to CmdReserved if it isn't a recognized code (spec §3).
func NewOutgoingFrame(cfg Config, command byte, payload []byte) *Frame {
	command = ClampCommand(command)
	length := byte(len(payload))
	wire := stuffPayload(payload)

	buf := NewByteBuffer(cfg.Frame.BufferSize)
	for _, b := range wire {
		// Encoder output always fits a correctly sized buffer; errors here
		// would mean BufferSize is misconfigured below the stuffed payload
		// length, which NewOutgoingFrame's caller is responsible for.
		_ = buf.Push(int(b))
	}

	return &Frame{
		Command:               command,
		PayloadBuffer:         buf,
		ExpectedPayloadLength: length,
		AnswerBuffer:          NewByteBuffer(MaxAnswerLength),
		CRC8:                  CRC8(crcInput(command, length, payload)),
		RetriesLeft:           cfg.Frame.RetryCount,
		LastByte:              0,
	}
}

// newIncomingFrame is created by the receive state machine at the CMD
// state (spec §4.3). The command byte is preserved verbatim, unlike
// NewOutgoingFrame — any value 0..255 is a legal incoming command.
func newIncomingFrame(cfg Config, command byte) *Frame {
	return &Frame{
		Command:       command,
		PayloadBuffer: NewByteBuffer(cfg.Frame.BufferSize),
		AnswerBuffer:  NewByteBuffer(MaxAnswerLength),
	}
}

// Payload returns the logical payload of a received frame. stepPayld
// (state.go) already discards stuff bytes as they arrive rather than
// pushing them, so PayloadBuffer holds the logical payload the moment
// payload_buffer.size == expected_payload_length (spec §4.3) — it must
// NOT be run through unstuffPayload again here, or any logical AA AA
// run loses its following byte a second time. Only meaningful once the
// frame has reached PAYLD completion; see WireBytes for outgoing frames,
// whose PayloadBuffer holds stuffed wire bytes instead.
func (f *Frame) Payload() []byte {
	return f.PayloadBuffer.Bytes()
}

// WireBytes returns the stuff-byte-encoded bytes an outgoing frame sends
// over the wire (NewOutgoingFrame fills PayloadBuffer with these directly).
func (f *Frame) WireBytes() []byte {
	return f.PayloadBuffer.Bytes()
}

// computeCRC recomputes the CRC over the now-fully-received logical
// payload and is compared against the CRC byte read off the wire at
// PAYLD-exhaustion (spec §4.3).
func (f *Frame) computeCRC() byte {
	return CRC8(crcInput(f.Command, f.ExpectedPayloadLength, f.Payload()))
}
