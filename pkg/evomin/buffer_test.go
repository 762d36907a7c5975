// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "testing"

func TestByteBufferPushPop(t *testing.T) {
	b := NewByteBuffer(4)
	for _, v := range []int{1, 2, 3} {
		if err := b.Push(v); err != nil {
			t.Fatalf("Push(%d): %v", v, err)
		}
	}
	if b.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", b.Size())
	}
	for _, want := range []byte{1, 2, 3} {
		got, err := b.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got != want {
			t.Errorf("Pop() = %d, want %d", got, want)
		}
	}
	if _, err := b.Pop(); err != ErrBufferEmpty {
		t.Errorf("Pop on empty buffer = %v, want ErrBufferEmpty", err)
	}
}

func TestByteBufferFull(t *testing.T) {
	b := NewByteBuffer(2)
	if err := b.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := b.Push(2); err != nil {
		t.Fatal(err)
	}
	if err := b.Push(3); err != ErrBufferFull {
		t.Errorf("Push beyond capacity = %v, want ErrBufferFull", err)
	}
}

func TestByteBufferOutOfRange(t *testing.T) {
	b := NewByteBuffer(4)
	if err := b.Push(-1); err != ErrOutOfRange {
		t.Errorf("Push(-1) = %v, want ErrOutOfRange", err)
	}
	if err := b.Push(256); err != ErrOutOfRange {
		t.Errorf("Push(256) = %v, want ErrOutOfRange", err)
	}
}

func TestByteBufferPeekDoesNotConsume(t *testing.T) {
	b := NewByteBuffer(4)
	_ = b.Push(7)
	v, err := b.Peek()
	if err != nil || v != 7 {
		t.Fatalf("Peek() = (%d, %v), want (7, nil)", v, err)
	}
	if b.Size() != 1 {
		t.Errorf("Size() after Peek = %d, want 1", b.Size())
	}
}

func TestByteBufferReset(t *testing.T) {
	b := NewByteBuffer(4)
	_ = b.Push(1)
	_ = b.Push(2)
	b.Reset()
	if b.Size() != 0 {
		t.Errorf("Size() after Reset = %d, want 0", b.Size())
	}
	if err := b.Push(9); err != nil {
		t.Fatalf("Push after Reset: %v", err)
	}
}

func TestByteBufferBytesDoesNotMutate(t *testing.T) {
	b := NewByteBuffer(4)
	_ = b.Push(1)
	_ = b.Push(2)
	snapshot := b.Bytes()
	snapshot[0] = 99
	if v, _ := b.Peek(); v == 99 {
		t.Error("mutating the slice returned by Bytes() affected the buffer")
	}
}
