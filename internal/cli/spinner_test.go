package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Rendering scene...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("plain Stop should not mark the spinner cancelled")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Rendering scene...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Propagating apertures...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context cancellation")
	}
}

func TestSpinnerContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Propagating apertures...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context timeout")
	}
}

func TestSpinnerStopMessages(t *testing.T) {
	s := newSpinner("Saving scene...")
	s.Start()
	s.StopWithSuccess("Saved")

	s = newSpinner("Saving scene...")
	s.Start()
	s.StopWithError("Save failed")
}
