// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import (
	"io"
	"log"
	"time"
)

// ReplyFunc is the narrow capability passed to a FrameReceivedFunc upcall:
// it may only append bytes to the delivered frame's answer buffer, and
// only for the duration of the upcall (spec §9 design notes — "the answer
// buffer is mutated only through a narrow reply capability").
type ReplyFunc func(payload []byte) error

// FrameReceivedFunc is invoked once per delivered frame. On a master-slave
// link this fires as soon as the payload is fully assembled, before the
// CRC byte has even been read off the wire (spec §4.3 "PAYLD details"), so
// that reply can be called in time for EOF to announce the answer length.
type FrameReceivedFunc func(f *Frame, reply ReplyFunc)

// ReplyReceivedFunc is invoked on the sending side once a master-slave
// exchange's answer bytes have been fully read back (spec §4.4 step 8c).
type ReplyReceivedFunc func(payload []byte)

// Engine owns the receive state machine, the outgoing send queue, and the
// transmit procedure, and is the single point of contact between
// application code and a Port (spec §5). Construction takes a Config by
// value, never global state, following the same pattern as Frame.
type Engine struct {
	cfg    Config
	port   Port
	logger *log.Logger
	stats  *Statistics

	state      State
	frame      *Frame
	pendingErr *FrameError
	pendingAck *Frame

	sendQ *sendQueue

	onFrameReceived FrameReceivedFunc
	onReplyReceived ReplyReceivedFunc

	nowFunc func() time.Time
}

// NewEngine builds an Engine around port using cfg. A nil logger is
// replaced with one that discards everything.
func NewEngine(cfg Config, port Port, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		cfg:     cfg,
		port:    port,
		logger:  logger,
		stats:   NewStatistics(),
		state:   StateIdle,
		sendQ:   newSendQueue(cfg.Interface.MaxQueuedFrames),
		nowFunc: time.Now,
	}
}

// OnFrameReceived registers the upcall invoked for each delivered frame.
func (e *Engine) OnFrameReceived(fn FrameReceivedFunc) { e.onFrameReceived = fn }

// FrameReceivedHook returns the currently registered frame-received upcall,
// or nil if none is set. Callers that need to layer an additional upcall
// on top of one set by earlier setup code (e.g. the TUI monitor chaining
// onto capture/telemetry recording) use this to avoid clobbering it.
func (e *Engine) FrameReceivedHook() FrameReceivedFunc { return e.onFrameReceived }

// OnReplyReceived registers the upcall invoked once a master-slave send's
// answer bytes have been fully read back.
func (e *Engine) OnReplyReceived(fn ReplyReceivedFunc) { e.onReplyReceived = fn }

// Stats returns the Engine's running counters.
func (e *Engine) Stats() *Statistics { return e.stats }

// State returns the receive state machine's current state.
func (e *Engine) State() State { return e.state }

// QueueLen returns the number of frames currently queued to send.
func (e *Engine) QueueLen() int { return e.sendQ.Len() }

// Send enqueues command/payload as a new outgoing frame (spec §4.4 step 1).
// It returns ErrQueueFull if max_queued_frames is already reached.
func (e *Engine) Send(command byte, payload []byte) error {
	f := NewOutgoingFrame(e.cfg, command, payload)
	return e.sendQ.PushBack(f)
}

// Poll performs exactly one receive step (if a byte is currently
// available) followed by, if the head of the send queue is due for a
// (re)send, one transmit attempt (spec §4.5).
func (e *Engine) Poll() error {
	b, err := e.port.TryReceiveByte()
	if err != nil {
		return err
	}
	if b != NoByte {
		e.Step(byte(b))
	}

	if head := e.sendQ.Front(); head != nil {
		if e.nowFunc().Sub(head.PreviousSendTimestamp) >= e.cfg.Interface.ResendMinTime {
			e.transmitFrame(head)
		}
	}
	return nil
}

func (e *Engine) masterSlave() bool {
	return e.port.Describe().IsMasterSlave
}

func (e *Engine) resetToIdle() {
	e.frame = nil
	e.state = StateIdle
}

func (e *Engine) raiseFramingError(msg string) {
	if !e.masterSlave() {
		e.port.SendByte(Nack)
	}
	e.pendingErr = newFramingError(msg)
	e.state = StateError
}

// deliverFrame invokes the frame-received upcall for e.frame, handing it a
// reply capability scoped to this single call.
func (e *Engine) deliverFrame() {
	f := e.frame
	e.stats.RecordDelivered()
	if e.onFrameReceived != nil {
		e.onFrameReceived(f, e.replyFunc(f))
	}
}

func (e *Engine) replyFunc(f *Frame) ReplyFunc {
	return func(payload []byte) error {
		for _, b := range payload {
			if err := f.AnswerBuffer.Push(int(b)); err != nil {
				return err
			}
		}
		return nil
	}
}

// transmitFrame runs the transmit procedure for the queue's head frame
// (spec §4.4 steps 2-10): header, command, length, payload, CRC, EOF, then
// ACK/NACK interpretation appropriate to the link kind.
func (e *Engine) transmitFrame(f *Frame) {
	if f.RetriesLeft == 0 {
		e.logger.Printf("%s", newRetriesExhaustedError(f.Command).Error())
		e.stats.RecordError(AnomalyRetriesExhausted)
		e.sendQ.PopFront()
		return
	}

	f.PreviousSendTimestamp = e.nowFunc()

	e.port.SendByte(SOF)
	e.port.SendByte(SOF)
	e.port.SendByte(SOF)
	e.port.SendByte(f.Command)
	e.port.SendByte(f.ExpectedPayloadLength)
	for _, b := range f.WireBytes() {
		e.port.SendByte(b)
	}
	e.port.SendByte(f.CRC8)
	ackByte, _ := e.port.SendByte(EOF)

	if !e.masterSlave() {
		// Non-clocked links can't return the peer's ACK/NACK inline with
		// the EOF send; the answer arrives later through the ordinary
		// receive pipeline (spec §4.4 step 10).
		e.sendQ.PopFront()
		e.pendingAck = f
		e.state = StateAwaitingAck
		return
	}

	switch byte(ackByte) {
	case Ack:
		e.completeMasterSlaveSend(f)
	case Nack:
		e.port.SendByte(Nack)
		e.retryOrDrop(f)
	default:
		e.retryOrDrop(f)
	}
}

func (e *Engine) retryOrDrop(f *Frame) {
	e.sendQ.PopFront()
	if f.RetriesLeft > 1 {
		f.RetriesLeft--
		e.sendQ.PushFront(f)
	} else {
		e.logger.Printf("%s", newRetriesExhaustedError(f.Command).Error())
		e.stats.RecordError(AnomalyRetriesExhausted)
	}
}

// completeMasterSlaveSend runs the reply exchange following a positive ACK
// on a master-slave link (spec §4.4 step 8): a second EOF announces the
// answer length, then one Dummy byte is sent per expected answer byte,
// clocking the peer's reply in.
func (e *Engine) completeMasterSlaveSend(f *Frame) {
	answerCount, _ := e.port.SendByte(EOF)

	reply := make([]byte, 0, answerCount)
	for i := 0; i < answerCount; i++ {
		b, _ := e.port.SendByte(Dummy)
		reply = append(reply, byte(b))
	}

	if e.onReplyReceived != nil {
		e.onReplyReceived(reply)
	}

	e.port.SendByte(Ack)
	f.IsSent = true
	e.stats.RecordSent()
	e.sendQ.PopFront()
}
