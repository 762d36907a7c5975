// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "time"

// Statistics tracks frame and error counters for an Engine, grounded on
// helios_protocol/statistics.go's running-counter-plus-rate shape, re-keyed
// from RPM/temperature anomalies to evomin's own error taxonomy.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	FramesDelivered  uint64
	FramesValid      uint64
	FramesSent       uint64
	FramingErrors    uint64
	CRCErrors        uint64
	RetriesExhausted uint64

	FrameRate float64 // delivered frames per second since StartTime
	ErrorRate float64 // (framing+CRC+retry) errors per second since StartTime
}

// NewStatistics returns a zeroed Statistics with StartTime set to now.
func NewStatistics() *Statistics {
	now := timeNow()
	return &Statistics{StartTime: now, LastUpdateTime: now}
}

// timeNow returns the wall-clock time used for the statistics' timestamps
// and rates; Engine's own send-retry timing goes through its injectable
// nowFunc instead (see engine.go).
func timeNow() time.Time {
	return time.Now()
}

func (s *Statistics) RecordDelivered() {
	s.FramesDelivered++
	s.touch()
}

func (s *Statistics) RecordValid() {
	s.FramesValid++
	s.touch()
}

func (s *Statistics) RecordSent() {
	s.FramesSent++
	s.touch()
}

func (s *Statistics) RecordError(t AnomalyType) {
	switch t {
	case AnomalyFraming:
		s.FramingErrors++
	case AnomalyCRCMismatch:
		s.CRCErrors++
	case AnomalyRetriesExhausted:
		s.RetriesExhausted++
	}
	s.touch()
}

func (s *Statistics) touch() {
	s.LastUpdateTime = timeNow()
	s.recalculateRates()
}

func (s *Statistics) recalculateRates() {
	elapsed := s.LastUpdateTime.Sub(s.StartTime).Seconds()
	if elapsed <= 0 {
		return
	}
	s.FrameRate = float64(s.FramesDelivered) / elapsed
	errs := s.FramingErrors + s.CRCErrors + s.RetriesExhausted
	s.ErrorRate = float64(errs) / elapsed
}

// Reset zeroes all counters and restarts the rate window.
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
