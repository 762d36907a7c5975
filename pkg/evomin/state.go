// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

// State is the receive state machine's current state (spec §4.3). It is a
// plain tagged variant over an int, dispatched through Engine.Step's single
// switch — the same shape helios_protocol/decoder.go already uses for its
// own (simpler, non-master-slave) decoder, generalized here to evomin's
// eleven states and master-slave branching. No heap allocation is needed
// per spec.md §9's design note: unlike the Python original's one-class-
// per-state hierarhcy, nothing here is polymorphic.
type State int

const (
	StateIdle State = iota
	StateSof1
	StateSof2
	StateCmd
	StateLen
	StatePayld
	StateCRC
	StateCRCFail
	StateEof
	StateReply
	StateError
	// StateAwaitingAck is not one of the eleven states in spec §4.3's
	// table; it implements the non-master-slave ACK/NACK path spec §9
	// leaves an open question (the Python original's stubbed
	// MSG_SENT_WAIT_FOR_ACK/REPLY_CREATEFRAME states). See DESIGN.md.
	StateAwaitingAck
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSof1:
		return "SOF1"
	case StateSof2:
		return "SOF2"
	case StateCmd:
		return "CMD"
	case StateLen:
		return "LEN"
	case StatePayld:
		return "PAYLD"
	case StateCRC:
		return "CRC"
	case StateCRCFail:
		return "CRC_FAIL"
	case StateEof:
		return "EOF"
	case StateReply:
		return "REPLY"
	case StateError:
		return "ERROR"
	case StateAwaitingAck:
		return "AWAITING_ACK"
	default:
		return "UNKNOWN"
	}
}

// Step feeds one received byte through the state machine, advancing
// e.state and, at the appropriate states, calling back into the frame
// codec, the upcalls, and the transport (spec §4.3).
func (e *Engine) Step(b byte) {
	switch e.state {
	case StateIdle:
		if b == SOF {
			e.state = StateSof1
		} else {
			e.raiseFramingError("expected SOF in IDLE")
		}

	case StateSof1:
		if b == SOF {
			e.state = StateSof2
		} else {
			e.raiseFramingError("expected second SOF")
		}

	case StateSof2:
		if b == SOF {
			e.state = StateCmd
		} else {
			e.raiseFramingError("expected third SOF")
		}

	case StateCmd:
		e.frame = newIncomingFrame(e.cfg, b)
		e.state = StateLen

	case StateLen:
		e.frame.ExpectedPayloadLength = b
		if b == 0 {
			e.frame.CRC8 = e.frame.computeCRC()
			if e.masterSlave() {
				e.deliverFrame()
			}
			e.state = StateCRC
		} else {
			e.state = StatePayld
		}

	case StatePayld:
		e.stepPayld(b)

	case StateCRC:
		e.stepCRC(b)

	case StateCRCFail:
		e.stepCRCFail(b)

	case StateEof:
		e.stepEof(b)

	case StateReply:
		e.stepReply(b)

	case StateError:
		e.stepError(b)

	case StateAwaitingAck:
		e.stepAwaitingAck(b)
	}
}

// stepPayld implements the PAYLD state's stuff-byte-aware accumulation
// (spec §4.3 "PAYLD details"): a byte following a detected SOF-run is the
// inserted stuff byte and is discarded rather than appended. A logical
// payload ending in an SOF run still has its stuff byte on the wire after
// the final logical byte, so completion can't be declared the moment
// payload_buffer.size reaches expected_payload_length if a stuff byte is
// still pending — the pending byte has to be consumed first, or it leaks
// into StateCRC and gets read as the CRC byte.
func (e *Engine) stepPayld(b byte) {
	f := e.frame

	if f.LastByteWasStuff {
		f.LastByteWasStuff = false
		f.LastByte = Stuff
		if byte(f.PayloadBuffer.Size()) == f.ExpectedPayloadLength {
			e.finishPayload()
		}
		return
	}

	if b == SOF && f.LastByte == SOF {
		f.LastByteWasStuff = true
	}

	if err := f.PayloadBuffer.Push(int(b)); err != nil {
		e.raiseFramingError("payload buffer full")
		return
	}
	f.LastByte = b

	if byte(f.PayloadBuffer.Size()) == f.ExpectedPayloadLength && !f.LastByteWasStuff {
		e.finishPayload()
	}
}

// finishPayload completes PAYLD once the logical payload is fully
// assembled and no stuff byte is still pending consumption (spec §4.3).
func (e *Engine) finishPayload() {
	f := e.frame
	f.CRC8 = f.computeCRC()
	if e.masterSlave() {
		e.deliverFrame()
	}
	e.state = StateCRC
}

// stepCRC compares the received CRC byte against the one computed while
// assembling the payload. On a master-slave link the ACK/NACK is sent
// immediately here ("must be queued now to appear on the next inbound
// clock", spec §4.3); the detailed error log is deferred to the CRC_FAIL
// sink state, matching how spec.md's S4 scenario narrates it.
func (e *Engine) stepCRC(b byte) {
	f := e.frame
	if b == f.CRC8 {
		f.IsValid = true
		e.stats.RecordValid()
		if e.masterSlave() {
			e.port.SendByte(Ack)
		}
		e.state = StateEof
		return
	}

	if e.masterSlave() {
		e.port.SendByte(Nack)
	}
	e.pendingErr = newCRCMismatchError(b, f.CRC8)
	e.state = StateCRCFail
}

func (e *Engine) stepCRCFail(byte) {
	if e.pendingErr != nil {
		e.logger.Printf("%s", e.pendingErr.Error())
		e.stats.RecordError(e.pendingErr.Type)
		e.pendingErr = nil
	}
	e.resetToIdle()
}

// stepEof implements spec §4.3's EOF state: master-slave links announce
// the answer length and move to REPLY; other links ACK immediately and
// deliver the frame (the only delivery point for non-master-slave links).
func (e *Engine) stepEof(byte) {
	f := e.frame
	if !f.IsValid {
		e.state = StateError
		return
	}

	if e.masterSlave() {
		e.port.SendByte(byte(f.AnswerBuffer.Size()))
		e.state = StateReply
		return
	}

	e.port.SendByte(Ack)
	e.deliverFrame()
	e.resetToIdle()
}

// stepReply drains the answer buffer one byte per inbound clock byte
// (expected to be Dummy from the master), returning to IDLE once empty.
func (e *Engine) stepReply(byte) {
	v, err := e.frame.AnswerBuffer.Pop()
	if err != nil {
		e.resetToIdle()
		return
	}
	e.port.SendByte(v)
	if e.frame.AnswerBuffer.Size() == 0 {
		e.resetToIdle()
	}
}

func (e *Engine) stepError(byte) {
	if e.pendingErr != nil {
		e.logger.Printf("%s", e.pendingErr.Error())
		e.stats.RecordError(e.pendingErr.Type)
		e.pendingErr = nil
	} else {
		e.logger.Printf("framing error, resynchronizing")
		e.stats.RecordError(AnomalyFraming)
	}
	e.resetToIdle()
}

// stepAwaitingAck interprets the next inbound byte as the ACK/NACK for a
// frame just transmitted over a non-master-slave link (spec §4.4 step 10).
// Anything else is reinjected into the ordinary receive pipeline: a byte
// that isn't Ack/Nack is most likely the start of an unrelated inbound
// frame arriving in the same window.
func (e *Engine) stepAwaitingAck(b byte) {
	f := e.pendingAck
	e.pendingAck = nil
	e.state = StateIdle

	switch b {
	case Ack:
		f.IsSent = true
		e.stats.RecordSent()
	case Nack:
		if f.RetriesLeft > 1 {
			f.RetriesLeft--
			e.sendQ.PushFront(f)
		} else {
			e.logger.Printf("%s", newRetriesExhaustedError(f.Command).Error())
			e.stats.RecordError(AnomalyRetriesExhausted)
		}
	default:
		e.Step(b)
	}
}
