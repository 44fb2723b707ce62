package runner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"pointerapp/internal/config"
	"pointerapp/pkg/window"
)

// Service drives one App on one Backend: one BeginFrame, Update, EndFrame
// cycle per tick, all on the goroutine that called Start.
type Service struct {
	config   *config.Config
	backend  window.Backend
	app      window.App
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	frames   uint64
}

func NewService(cfg *config.Config, backend window.Backend, app window.App) *Service {
	return &Service{
		config:   cfg,
		backend:  backend,
		app:      app,
		stopChan: make(chan struct{}),
	}
}

// Start runs the frame loop until ctx is cancelled, Stop is called or the
// window is closed. It returns nil when the user closed the window or Stop
// was called.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("frame loop is already running")
	}
	defer s.running.Store(false)

	log.Printf("Starting frame loop on %s backend with %v frame interval", s.backend.Name(), s.config.Frame.Interval)

	interval := s.config.Frame.Interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		repaint, err := s.frameOnce()
		if err != nil {
			return fmt.Errorf("frame %d: %w", s.frames, err)
		}

		if s.backend.Closed() {
			log.Println("Window closed")
			return nil
		}

		next := s.config.Frame.Interval
		if !repaint {
			next = s.config.Frame.IdleInterval
		}
		if next != interval {
			interval = next
			ticker.Reset(interval)
		}

		select {
		case <-ctx.Done():
			log.Println("Frame loop stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Frame loop stopped")
			return nil

		case <-ticker.C:
		}
	}
}

func (s *Service) Stop() {
	if s.running.Load() {
		s.stopOnce.Do(func() { close(s.stopChan) })
	}
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Frames returns how many frames have been rendered
func (s *Service) Frames() uint64 {
	return s.frames
}

// frameOnce renders a single frame and reports whether the app asked for
// the next one promptly
func (s *Service) frameOnce() (bool, error) {
	ctx, err := s.backend.BeginFrame()
	if err != nil {
		return false, fmt.Errorf("failed to begin frame: %w", err)
	}

	s.app.Update(ctx)

	if err := s.backend.EndFrame(); err != nil {
		return false, fmt.Errorf("failed to end frame: %w", err)
	}
	s.frames++

	if f, ok := ctx.(interface{ RepaintRequested() bool }); ok {
		return f.RepaintRequested(), nil
	}
	return true, nil
}
