// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "testing"

func TestStuffPayloadS2(t *testing.T) {
	got := stuffPayload([]byte{0xAA, 0xAA, 0xBB, 0xBB})
	want := []byte{0xAA, 0xAA, Stuff, 0xBB, 0xBB}
	if !bytesEqual(got, want) {
		t.Errorf("stuffPayload = %x, want %x", got, want)
	}
}

func TestUnstuffPayloadS2(t *testing.T) {
	got := unstuffPayload([]byte{0xAA, 0xAA, Stuff, 0xBB, 0xBB})
	want := []byte{0xAA, 0xAA, 0xBB, 0xBB}
	if !bytesEqual(got, want) {
		t.Errorf("unstuffPayload = %x, want %x", got, want)
	}
}

func TestStuffPayloadNoSOFRun(t *testing.T) {
	payload := []byte{0x01, 0xAA, 0x02, 0xAA, 0x03}
	got := stuffPayload(payload)
	if !bytesEqual(got, payload) {
		t.Errorf("stuffPayload should be a no-op without an SOF run: got %x, want %x", got, payload)
	}
}

func TestStuffPayloadTripleSOF(t *testing.T) {
	// Three SOF bytes in a row: a stuff byte is inserted after the second
	// SOF, then the third SOF starts a fresh run with nothing following it
	// to trigger another insertion.
	got := stuffPayload([]byte{SOF, SOF, SOF})
	want := []byte{SOF, SOF, Stuff, SOF}
	if !bytesEqual(got, want) {
		t.Errorf("stuffPayload(AA AA AA) = %x, want %x", got, want)
	}
	if rt := unstuffPayload(got); !bytesEqual(rt, []byte{SOF, SOF, SOF}) {
		t.Errorf("round trip of AA AA AA = %x, want AA AA AA", rt)
	}
}

func TestClampCommand(t *testing.T) {
	if ClampCommand(CmdSendIDN) != CmdSendIDN {
		t.Error("ClampCommand should preserve a known command")
	}
	if ClampCommand(0x99) != CmdReserved {
		t.Error("ClampCommand should map an unknown command to CmdReserved")
	}
}
