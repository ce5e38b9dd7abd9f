package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerBasic(t *testing.T) {
	s, buf := newTestSpinner(context.Background(), "Collecting pairs...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Collecting pairs...") {
		t.Errorf("spinner output missing message: %q", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := newTestSpinner(context.Background(), "start")
	s.Start()
	s.SetMessage("[%d/%d] %s", 2, 5, "react/vue")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if got := s.Message(); got != "[2/5] react/vue" {
		t.Errorf("Message() = %q", got)
	}
	if !strings.Contains(buf.String(), "[2/5] react/vue") {
		t.Errorf("spinner output missing updated message: %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := newTestSpinner(ctx, "waiting")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "stop twice")
	s.Start()
	s.Stop()
	s.Stop()
}
