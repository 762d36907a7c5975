// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package transport

import (
	"errors"
	"io"

	"github.com/coldforge/evomin/pkg/evomin"
)

// errClosed is returned by Port methods once the underlying link is known
// to have gone away.
var errClosed = errors.New("transport: closed")

// StreamPort adapts any io.ReadWriteCloser (a serial port, a WebSocket
// byte tunnel) into an evomin.Port. By default it reports itself as not
// master-slave: reads and writes happen independently, exactly the property
// spec §6 uses to tell UART-like links apart from SPI-like ones.
// NewStreamPortMasterSlave and SetMasterSlave change only what Describe
// reports; SendByte returns NoByte either way.
//
// Reading runs on a background goroutine so TryReceiveByte can be
// non-blocking, the same shape cmd/connection.go's SerialConnection and
// WebSocketConnection give a blocking io.Reader — except evomin.Port needs
// a poll-style TryReceiveByte, so the blocking Read is pushed onto a
// goroutine feeding a buffered channel instead.
type StreamPort struct {
	rw            io.ReadWriteCloser
	recv          chan byte
	errs          chan error
	isMasterSlave bool
}

// NewStreamPort wraps rw and starts its background read loop. The link is
// reported as non-master-slave; use NewStreamPortMasterSlave to override
// this for a clocked link carried over a stream transport.
func NewStreamPort(rw io.ReadWriteCloser) *StreamPort {
	return newStreamPort(rw, false)
}

// NewStreamPortMasterSlave is NewStreamPort but reports the link as
// master-slave, for links (e.g. a tunneled SPI bridge) where the stream
// framing still implies clocked send/receive semantics.
func NewStreamPortMasterSlave(rw io.ReadWriteCloser) *StreamPort {
	return newStreamPort(rw, true)
}

func newStreamPort(rw io.ReadWriteCloser, isMasterSlave bool) *StreamPort {
	p := &StreamPort{
		rw:            rw,
		recv:          make(chan byte, 256),
		errs:          make(chan error, 1),
		isMasterSlave: isMasterSlave,
	}
	go p.readLoop()
	return p
}

func (p *StreamPort) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := p.rw.Read(buf)
		if n > 0 {
			p.recv <- buf[0]
		}
		if err != nil {
			p.errs <- err
			close(p.recv)
			return
		}
	}
}

func (p *StreamPort) Describe() evomin.ComDescription {
	return evomin.ComDescription{IsMasterSlave: p.isMasterSlave}
}

// SetMasterSlave overrides whether this link is reported as master-slave,
// for a stream transport carrying a clocked protocol (e.g. a tunneled SPI
// bridge) rather than independent send/receive.
func (p *StreamPort) SetMasterSlave(v bool) {
	p.isMasterSlave = v
}

func (p *StreamPort) SendByte(b byte) (int, error) {
	if _, err := p.rw.Write([]byte{b}); err != nil {
		return evomin.NoByte, err
	}
	return evomin.NoByte, nil
}

func (p *StreamPort) TryReceiveByte() (int, error) {
	select {
	case b, ok := <-p.recv:
		if !ok {
			select {
			case err := <-p.errs:
				return evomin.NoByte, err
			default:
				return evomin.NoByte, io.EOF
			}
		}
		return int(b), nil
	default:
		return evomin.NoByte, nil
	}
}

// Close closes the underlying link.
func (p *StreamPort) Close() error {
	return p.rw.Close()
}
