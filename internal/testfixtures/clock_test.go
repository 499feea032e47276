package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected the reference time, got %v", clock.Now())
	}
}

func TestClockAdvanceCrossesASessionTTL(t *testing.T) {
	issued := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	clock := NewClock(issued)

	expiry := issued.Add(24 * time.Hour)
	if got := clock.Advance(25 * time.Hour); !got.After(expiry) {
		t.Fatalf("advancing 25h should pass a 24h expiry, got %v", got)
	}

	clock.Set(issued)
	if !clock.Now().Equal(issued) {
		t.Fatalf("expected the clock back at %v, got %v", issued, clock.Now())
	}
}

func TestClockNowFuncTracksTheClock(t *testing.T) {
	clock := NewClock(time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC))
	now := clock.NowFunc()

	before := now()
	clock.Advance(time.Minute)
	if got := now(); !got.Equal(before.Add(time.Minute)) {
		t.Fatalf("expected %v, got %v", before.Add(time.Minute), got)
	}
}
