// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package evomin

import "testing"

func TestStatisticsRecordCounters(t *testing.T) {
	s := NewStatistics()
	s.RecordDelivered()
	s.RecordDelivered()
	s.RecordValid()
	s.RecordSent()
	s.RecordError(AnomalyFraming)
	s.RecordError(AnomalyCRCMismatch)
	s.RecordError(AnomalyRetriesExhausted)

	if s.FramesDelivered != 2 {
		t.Errorf("FramesDelivered = %d, want 2", s.FramesDelivered)
	}
	if s.FramesValid != 1 {
		t.Errorf("FramesValid = %d, want 1", s.FramesValid)
	}
	if s.FramesSent != 1 {
		t.Errorf("FramesSent = %d, want 1", s.FramesSent)
	}
	if s.FramingErrors != 1 || s.CRCErrors != 1 || s.RetriesExhausted != 1 {
		t.Errorf("error counters = %d/%d/%d, want 1/1/1", s.FramingErrors, s.CRCErrors, s.RetriesExhausted)
	}
}

func TestStatisticsReset(t *testing.T) {
	s := NewStatistics()
	s.RecordDelivered()
	s.RecordError(AnomalyFraming)
	s.Reset()

	if s.FramesDelivered != 0 || s.FramingErrors != 0 {
		t.Error("Reset should zero all counters")
	}
}
