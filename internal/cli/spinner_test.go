package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })
	return &buf
}

func TestSpinnerDrawsFrames(t *testing.T) {
	buf := captureStderr(t)
	s := newSpinner(context.Background(), "Drawing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Drawing...") {
		t.Errorf("spinner output = %q", buf.String())
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	captureStderr(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Drawing...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStderr(t)
	s := newSpinner(context.Background(), "Drawing...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), "Drawing...")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	captureStderr(t)
	out := captureStdout(t)
	s := newSpinner(context.Background(), "Drawing...")
	s.Start()
	s.StopWithError("failed")
	if !strings.Contains(out.String(), "failed") {
		t.Errorf("stdout = %q", out.String())
	}
}
