// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "testing"

// CRC test vectors below correspond to spec.md's S1-S3 worked scenarios.
func TestCRC8Vectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want byte
	}{
		{"S1 DEADBEEF", []byte{0xCD, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}, 0x4E},
		{"S2 stuffed logical payload", []byte{0xCD, 0x04, 0xAA, 0xAA, 0xBB, 0xBB}, 0xD7},
		{"S3 zero length", []byte{0xCD, 0x00}, 0x3D},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CRC8(tc.data)
			if got != tc.want {
				t.Errorf("CRC8(%x) = 0x%02X, want 0x%02X", tc.data, got, tc.want)
			}
		})
	}
}

func TestCRC8Deterministic(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	if CRC8(data) != CRC8(data) {
		t.Fatal("CRC8 is not deterministic")
	}
}

func TestCRC8ChangesOnCorruption(t *testing.T) {
	data := []byte{0xCD, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}
	base := CRC8(data)
	data[2] ^= 0xFF
	if CRC8(data) == base {
		t.Fatal("CRC8 unchanged after corrupting a byte")
	}
}
