// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

// Package capture records evomin frame traffic to a file and reads it back
// in order, for offline inspection without a live link attached (the replay
// command prints the recorded events; it does not run them through an
// engine). It is an
// application-level recording format only: it has no bearing on the wire
// encoding in pkg/evomin (SOF/CRC/stuff-byte framing is untouched). The
// encoding itself is grounded on pkg/fusain/cbor.go's use of
// github.com/fxamacker/cbor/v2, though capture.go encodes typed Go structs
// directly rather than fusain's [msg_type, generic-map] shape, since there
// is no need here to mirror a schema-less wire protocol.
package capture

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/coldforge/evomin/pkg/evomin"
)

// Direction marks which side of a link an Event was observed on.
type Direction string

const (
	DirectionReceived Direction = "rx"
	DirectionSent     Direction = "tx"
)

// Event is one recorded frame, length-prefix-delimited in the capture file.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Direction Direction `cbor:"2,keyasint,omitempty"`
	Command   byte      `cbor:"3,keyasint"`
	Payload   []byte    `cbor:"4,keyasint"`
	Answer    []byte    `cbor:"5,keyasint,omitempty"`
	Valid     bool      `cbor:"6,keyasint"`
}

// EventFromFrame builds an Event from a live evomin.Frame.
func EventFromFrame(dir Direction, f *evomin.Frame) Event {
	return Event{
		Timestamp: time.Now(),
		Direction: dir,
		Command:   f.Command,
		Payload:   f.Payload(),
		Answer:    f.AnswerBuffer.Bytes(),
		Valid:     f.IsValid,
	}
}

// Writer appends Events to a capture file as length-prefixed CBOR records.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for appending Events.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes and appends one Event.
func (cw *Writer) Write(e Event) error {
	data, err := cbor.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal capture event: %w", err)
	}
	if err := writeUvarint(cw.w, uint64(len(data))); err != nil {
		return err
	}
	_, err = cw.w.Write(data)
	return err
}

// Flush flushes buffered writes to the underlying writer.
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}

// Reader reads Events back out of a capture file in order.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for sequential Event replay.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next Event, or io.EOF once the file is exhausted.
func (cr *Reader) Next() (Event, error) {
	var e Event
	length, err := readUvarint(cr.r)
	if err != nil {
		return e, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(cr.r, data); err != nil {
		return e, fmt.Errorf("read capture event: %w", err)
	}
	if err := cbor.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("unmarshal capture event: %w", err)
	}
	return e, nil
}

// ReadAll drains every remaining Event from cr.
func (cr *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		e, err := cr.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

func writeUvarint(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

func readUvarint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}
