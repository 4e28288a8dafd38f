package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("analyzing ")
	s.w = &buf

	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "analyzing ") {
		t.Fatalf("spinner output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Fatalf("spinner should clear the line on stop, got %q", out)
	}
}

func TestSpinnerStopIsPrompt(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("working ")
	s.w = &buf

	s.Start()
	start := time.Now()
	s.Stop()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Stop took %v, expected near-immediate return", elapsed)
	}
}
