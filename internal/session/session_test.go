package session

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"pointerapp/internal/config"
	"pointerapp/pkg/integrations/headless"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Frame.Interval = time.Millisecond
	cfg.Frame.IdleInterval = time.Millisecond
	cfg.Annotation.IdleThreshold = 5 * time.Millisecond
	return cfg
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestRunIdleSession(t *testing.T) {
	logs := captureLog(t)
	cfg := testConfig()

	backend := headless.NewBackend(headless.At(5, 5))
	backend.CloseAfter = 50

	if err := RunContext(context.Background(), cfg, backend, Idle); err != nil {
		t.Fatalf("RunContext() error: %v", err)
	}

	if backend.Title() != "Pointer App" {
		t.Errorf("window title = %q, want Pointer App", backend.Title())
	}
	if len(backend.Frames) != 50 {
		t.Fatalf("rendered %d frames, want 50", len(backend.Frames))
	}

	last := backend.Frames[len(backend.Frames)-1]
	if len(last) != 1 || last[0].Text != cfg.Annotation.IdleMessage {
		t.Errorf("last frame = %+v, want the idle message", last)
	}

	out := logs.String()
	if !strings.Contains(out, "Session Report - idle") || !strings.Contains(out, "Idle episodes") {
		t.Errorf("session summary missing from logs:\n%s", out)
	}
}

func TestRunDecorativeSession(t *testing.T) {
	captureLog(t)
	cfg := testConfig()

	backend := headless.NewBackend(headless.At(1, 2), headless.Away(), headless.At(3, 4))
	backend.CloseAfter = 3

	if err := RunContext(context.Background(), cfg, backend, Decorative); err != nil {
		t.Fatalf("RunContext() error: %v", err)
	}

	want := []int{1, 0, 1}
	for i, n := range want {
		if len(backend.Frames[i]) != n {
			t.Errorf("frame %d painted %d times, want %d", i, len(backend.Frames[i]), n)
		}
	}
	if backend.Frames[2][0].Text != cfg.Annotation.DecorativeMessage {
		t.Errorf("frame 2 text = %q", backend.Frames[2][0].Text)
	}
}

func TestRunCancelled(t *testing.T) {
	captureLog(t)
	cfg := testConfig()
	backend := headless.NewBackend(headless.Away())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := RunContext(ctx, cfg, backend, Idle)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunContext() error = %v, want deadline exceeded", err)
	}
}

func TestRunCancelledBySignalIsClean(t *testing.T) {
	captureLog(t)
	cfg := testConfig()
	backend := headless.NewBackend(headless.Away())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := RunContext(ctx, cfg, backend, Decorative); err != nil {
		t.Errorf("RunContext() error = %v, want nil", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Window.Title = ""

	err := RunContext(context.Background(), cfg, headless.NewBackend(), Idle)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("RunContext() error = %v", err)
	}
}

func TestRunOpenFailure(t *testing.T) {
	cfg := testConfig()
	backend := headless.NewBackend()
	if err := backend.Open("taken"); err != nil {
		t.Fatal(err)
	}

	err := RunContext(context.Background(), cfg, backend, Idle)
	if err == nil || !strings.Contains(err.Error(), "failed to open window") {
		t.Errorf("RunContext() error = %v", err)
	}
}

func TestRunBackendFailure(t *testing.T) {
	captureLog(t)
	cfg := testConfig()
	backend := headless.NewBackend(headless.At(1, 1))
	backend.FailAt = 2

	err := RunContext(context.Background(), cfg, backend, Decorative)
	if err == nil || !strings.Contains(err.Error(), "scripted failure") {
		t.Errorf("RunContext() error = %v", err)
	}
}

func TestVariantString(t *testing.T) {
	if Idle.String() != "idle" || Decorative.String() != "decorative" {
		t.Errorf("String() = %s, %s", Idle, Decorative)
	}
	if Variant(7).String() != "variant(7)" {
		t.Errorf("Variant(7).String() = %s", Variant(7))
	}
}
