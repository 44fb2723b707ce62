package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"pointerapp/internal/annotator"
	"pointerapp/internal/config"
	"pointerapp/internal/journal"
	"pointerapp/internal/reporter"
	"pointerapp/internal/runner"
	"pointerapp/pkg/window"
)

// Variant selects which annotator a session runs
type Variant int

const (
	// Idle shows the idle message once the pointer rests
	Idle Variant = iota
	// Decorative paints the decorative label on every frame
	Decorative
)

func (v Variant) String() string {
	switch v {
	case Idle:
		return "idle"
	case Decorative:
		return "decorative"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Run opens the window on backend and drives the variant's annotator until
// the window closes or the process is signalled. Initialization failures
// are returned as is; nothing is retried.
func Run(cfg *config.Config, backend window.Backend, variant Variant) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RunContext(ctx, cfg, backend, variant)
}

// RunContext is Run with a caller-supplied context
func RunContext(ctx context.Context, cfg *config.Config, backend window.Backend, variant Variant) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := backend.Open(cfg.Window.Title); err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("Failed to close %s backend: %v", backend.Name(), err)
		}
	}()

	startedAt := time.Now()

	var (
		app      window.App
		recorder *journal.Recorder
		rep      *reporter.Reporter
	)

	switch variant {
	case Idle:
		var opts []annotator.Option
		if cfg.Journal.Enabled {
			db, err := openJournal(cfg.Journal.DSN)
			if err != nil {
				log.Printf("Session journal disabled: %v", err)
			} else {
				defer db.Close()
				repo := journal.NewRepository(db)
				recorder = journal.NewRecorder(repo)
				rep = reporter.New(variant.String(), repo, startedAt)
				opts = append(opts, annotator.WithObserver(recorder))
			}
		}
		app = annotator.NewIdle(annotator.IdleLabel(cfg), cfg.Annotation.IdleThreshold, opts...)

	case Decorative:
		app = annotator.NewDecorative(annotator.DecorativeLabel(cfg))

	default:
		return fmt.Errorf("unknown variant: %v", variant)
	}

	log.Printf("Starting %s session", variant)

	svc := runner.NewService(cfg, backend, app)
	err := svc.Start(ctx)
	if errors.Is(err, context.Canceled) {
		log.Println("Received shutdown signal")
		err = nil
	}

	endedAt := time.Now()
	log.Printf("Session ended after %d frames", svc.Frames())

	if recorder != nil {
		recorder.Flush(endedAt)
		logSummary(rep, endedAt)
	}

	return err
}

func openJournal(dsn string) (*journal.DB, error) {
	db, err := journal.Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func logSummary(rep *reporter.Reporter, end time.Time) {
	report, err := rep.GenerateReport(end)
	if err != nil {
		log.Printf("Failed to generate session report: %v", err)
		return
	}
	log.Printf("\n%s", rep.FormatReportText(report))
}
