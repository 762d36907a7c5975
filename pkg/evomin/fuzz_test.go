// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000.
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time.
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility.
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomPayload(rng *rand.Rand) []byte {
	n := rng.Intn(32)
	p := make([]byte, n)
	for i := range p {
		// Bias toward 0xAA so SOF runs actually occur in most payloads.
		if rng.Intn(3) == 0 {
			p[i] = SOF
		} else {
			p[i] = byte(rng.Intn(256))
		}
	}
	return p
}

// TestFuzzStuffByteRoundTrip is testable property 1: decode(encode(p)) == p
// for any logical payload.
func TestFuzzStuffByteRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		payload := randomPayload(rng)
		wire := stuffPayload(payload)
		got := unstuffPayload(wire)
		if !bytesEqual(got, payload) {
			t.Fatalf("round #%d: unstuffPayload(stuffPayload(%x)) = %x, want %x", i, payload, got, payload)
		}
	}
}

// TestFuzzCRCIgnoresStuffBytes is testable property 2: CRC8 over
// [command, length, payload] depends only on the logical payload, never on
// the stuff bytes inserted for the wire.
func TestFuzzCRCIgnoresStuffBytes(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		payload := randomPayload(rng)
		command := byte(rng.Intn(256))
		length := byte(len(payload))

		logical := CRC8(crcInput(command, length, payload))

		wire := stuffPayload(payload)
		roundTripped := unstuffPayload(wire)
		fromWire := CRC8(crcInput(command, length, roundTripped))

		if logical != fromWire {
			t.Fatalf("round #%d: CRC over logical payload (0x%02X) != CRC recomputed after stuffing round-trip (0x%02X)", i, logical, fromWire)
		}
	}
}

// TestFuzzLengthFieldMatchesLogicalLength is testable property 3: the
// length field NewOutgoingFrame stores is always the pre-stuffing logical
// length, never the wire (post-stuffing) length.
func TestFuzzLengthFieldMatchesLogicalLength(t *testing.T) {
	rng := newFuzzRng(t)
	cfg := DefaultConfig()
	for i := 0; i < getFuzzRounds(); i++ {
		payload := randomPayload(rng)
		f := NewOutgoingFrame(cfg, CmdSendIDN, payload)
		if int(f.ExpectedPayloadLength) != len(payload) {
			t.Fatalf("round #%d: ExpectedPayloadLength = %d, want logical length %d", i, f.ExpectedPayloadLength, len(payload))
		}
	}
}

// TestFuzzIdempotentReset is testable property 4: resetting an engine to
// IDLE from a partly assembled frame (PAYLD state with a frame in
// progress), then feeding it a well-formed frame, behaves identically to a
// freshly constructed engine.
func TestFuzzIdempotentReset(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		payload := randomPayload(rng)
		command := byte(rng.Intn(256))
		wire := encodeTestFrame(command, payload)

		dirty := newTestEngine(&recordingPort{masterSlave: true})
		// Scribble some partial, malformed state before resetting.
		dirty.state = StatePayld
		dirty.frame = newIncomingFrame(dirty.cfg, command)
		dirty.resetToIdle()

		fresh := newTestEngine(&recordingPort{masterSlave: true})

		var dirtyPayload, freshPayload []byte
		dirty.OnFrameReceived(func(f *Frame, reply ReplyFunc) { dirtyPayload = f.Payload() })
		fresh.OnFrameReceived(func(f *Frame, reply ReplyFunc) { freshPayload = f.Payload() })

		feed(dirty, wire)
		feed(fresh, wire)

		if !bytesEqual(dirtyPayload, freshPayload) {
			t.Fatalf("round #%d: post-reset engine decoded %x, fresh engine decoded %x", i, dirtyPayload, freshPayload)
		}
		if dirty.State() != fresh.State() {
			t.Fatalf("round #%d: post-reset engine state %s != fresh engine state %s", i, dirty.State(), fresh.State())
		}
	}
}

// TestFuzzSingleDelivery is testable property 5: frame_received fires
// exactly once per well-formed frame, for k frames in one stream. On a
// master-slave link the receiver spends one clocked byte in REPLY after
// each frame's EOF (see TestS1MinimalFrame), so each frame is followed by
// the master's Dummy clock byte.
func TestFuzzSingleDelivery(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		k := rng.Intn(5) + 1
		port := &recordingPort{masterSlave: true}
		e := newTestEngine(port)

		count := 0
		e.OnFrameReceived(func(f *Frame, reply ReplyFunc) { count++ })

		var wire []byte
		for j := 0; j < k; j++ {
			wire = append(wire, encodeTestFrame(byte(rng.Intn(256)), randomPayload(rng))...)
			wire = append(wire, Dummy)
		}
		feed(e, wire)

		if count != k {
			t.Fatalf("round #%d: frame_received invoked %d times for %d frames, want %d", i, count, k, k)
		}
	}
}

// encodeTestFrame builds the full wire byte sequence for one frame
// (header, stuffed payload, CRC, EOF), mirroring NewOutgoingFrame's layout
// but as a flat byte slice suitable for feeding straight into Engine.Step.
func encodeTestFrame(command byte, payload []byte) []byte {
	length := byte(len(payload))
	crc := CRC8(crcInput(command, length, payload))

	wire := []byte{SOF, SOF, SOF, command, length}
	wire = append(wire, stuffPayload(payload)...)
	wire = append(wire, crc, EOF)
	return wire
}

func TestEncodeTestFrameMatchesS1(t *testing.T) {
	wire := encodeTestFrame(0xCD, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	want := []byte{SOF, SOF, SOF, 0xCD, 0x04, 0xDE, 0xAD, 0xBE, 0xEF, 0x4E, EOF}
	if !bytesEqual(wire, want) {
		t.Fatalf("encodeTestFrame = %x, want %x", wire, want)
	}
}
