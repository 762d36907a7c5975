// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

// stuffPayload applies the evomin stuff-byte rule to a logical payload
// (spec §4.2): whenever two consecutive SOF bytes appear in the logical
// stream, a single Stuff byte is inserted immediately after the second
// SOF. The rule applies only within the payload, never to framing bytes.
// Shaped after fusain's stuffBytes, adapted from Fusain's "escape any
// reserved byte" scheme to evomin's narrower "escape only a SOF run" rule.
func stuffPayload(logical []byte) []byte {
	out := make([]byte, 0, len(logical)+len(logical)/2)
	var lastByte byte
	haveLast := false
	for _, b := range logical {
		out = append(out, b)
		if b == SOF && haveLast && lastByte == SOF {
			// A run longer than two SOF bytes must not re-trigger on the
			// byte immediately after an inserted stuff byte: the decoder
			// (stepPayld) resets its own "last byte" to Stuff once it eats
			// one, so the encoder has to track the same post-stuff state
			// rather than looking back at the raw logical array.
			out = append(out, Stuff)
			lastByte = Stuff
		} else {
			lastByte = b
		}
		haveLast = true
	}
	return out
}

// unstuffPayload removes evomin stuff bytes from wire-form payload bytes,
// returning the logical payload. It mirrors the PAYLD state's decode logic
// (spec §4.3) but operates over a complete byte slice; only tests use it,
// not the live decoder (which applies the same rule one byte at a time
// against Frame's scratch fields; see state.go stepPayld).
func unstuffPayload(wire []byte) []byte {
	out := make([]byte, 0, len(wire))
	lastByte := -1
	lastByteWasStuff := false
	for _, b := range wire {
		if lastByteWasStuff {
			lastByteWasStuff = false
			lastByte = int(Stuff)
			continue
		}
		if b == SOF && lastByte == SOF {
			lastByteWasStuff = true
		}
		out = append(out, b)
		lastByte = int(b)
	}
	return out
}
