// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

// Package transport holds concrete evomin.Port implementations: simulated
// links for tests and tooling, and real links (UART, a WebSocket tunnel)
// for talking to hardware.
package transport

import (
	"sync"

	"github.com/coldforge/evomin/pkg/evomin"
)

// ScriptedPort is a fixed-script master-slave fake, a direct generalization
// of original_source/evomin/com_fake.py's EvominFakeSPIInterface: every
// SendByte call returns the next byte from a prerecorded script rather
// than modeling a live peer. Since a real master-slave link never produces
// bytes independently of a send, TryReceiveByte always reports NoByte.
type ScriptedPort struct {
	mu     sync.Mutex
	script []byte
	pos    int
}

// NewScriptedPort builds a ScriptedPort that replies with script, one byte
// per SendByte call, then returns NoByte (with a nil error) once exhausted.
func NewScriptedPort(script []byte) *ScriptedPort {
	return &ScriptedPort{script: script}
}

func (p *ScriptedPort) Describe() evomin.ComDescription {
	return evomin.ComDescription{IsMasterSlave: true}
}

func (p *ScriptedPort) SendByte(byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos >= len(p.script) {
		return evomin.NoByte, nil
	}
	b := p.script[p.pos]
	p.pos++
	return int(b), nil
}

func (p *ScriptedPort) TryReceiveByte() (int, error) {
	return evomin.NoByte, nil
}

// Remaining reports how many scripted reply bytes are still unconsumed,
// useful for asserting a test exercised the whole script.
func (p *ScriptedPort) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.script) - p.pos
}

// LoopbackPort is a non-master-slave fake built from two byte channels, for
// wiring two Engines directly together in tests without a real transport.
// NewLoopbackPair returns both ends already cross-connected.
type LoopbackPort struct {
	out    chan<- byte
	in     <-chan byte
	closed chan struct{}
}

// NewLoopbackPair returns two LoopbackPorts, each reading what the other
// writes.
func NewLoopbackPair() (a, b *LoopbackPort) {
	ab := make(chan byte, 256)
	ba := make(chan byte, 256)
	closed := make(chan struct{})
	a = &LoopbackPort{out: ab, in: ba, closed: closed}
	b = &LoopbackPort{out: ba, in: ab, closed: closed}
	return a, b
}

func (p *LoopbackPort) Describe() evomin.ComDescription {
	return evomin.ComDescription{IsMasterSlave: false}
}

func (p *LoopbackPort) SendByte(b byte) (int, error) {
	select {
	case p.out <- b:
		return evomin.NoByte, nil
	case <-p.closed:
		return evomin.NoByte, errClosed
	}
}

func (p *LoopbackPort) TryReceiveByte() (int, error) {
	select {
	case b := <-p.in:
		return int(b), nil
	default:
		return evomin.NoByte, nil
	}
}
