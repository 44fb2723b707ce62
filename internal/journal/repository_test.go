package journal

import (
	"testing"
	"time"

	"pointerapp/internal/models"
	"pointerapp/pkg/window"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := Connect("")
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return NewRepository(db)
}

func TestCreateAndFinish(t *testing.T) {
	repo := newTestRepo(t)
	shown := time.Unix(1700000000, 0)

	episode := &models.IdleEpisode{X: 5, Y: 5, LastMoveAt: shown.Add(-200 * time.Millisecond), ShownAt: shown}
	if err := repo.Create(episode); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if episode.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	if err := repo.Finish(episode.ID, shown.Add(1500*time.Millisecond)); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}

	got, err := repo.GetByID(episode.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Open() {
		t.Error("episode still open after Finish()")
	}
	if got.VisibleMs != 1500 {
		t.Errorf("VisibleMs = %d, want 1500", got.VisibleMs)
	}

	if err := repo.Finish(episode.ID, shown.Add(3*time.Second)); err == nil {
		t.Error("second Finish() returned nil error")
	}
}

func TestFinishMissing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Finish(42, time.Now()); err == nil {
		t.Error("Finish() on missing episode returned nil error")
	}
}

func TestSummary(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Unix(1700000000, 0)

	for i, visible := range []time.Duration{300 * time.Millisecond, 2 * time.Second, time.Second} {
		shown := base.Add(time.Duration(i) * time.Minute)
		e := &models.IdleEpisode{ShownAt: shown, LastMoveAt: shown}
		if err := repo.Create(e); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if err := repo.Finish(e.ID, shown.Add(visible)); err != nil {
			t.Fatalf("Finish() error: %v", err)
		}
	}

	// still showing, excluded from the summary
	if err := repo.Create(&models.IdleEpisode{ShownAt: base.Add(time.Hour), LastMoveAt: base}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	summary, err := repo.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary() error: %v", err)
	}
	if summary.EpisodeCount != 3 || summary.TotalMs != 3300 || summary.LongestMs != 2000 {
		t.Errorf("summary = %+v, want 3 episodes, 3300ms total, 2000ms longest", summary)
	}

	open, err := repo.CountOpen()
	if err != nil || open != 1 {
		t.Errorf("CountOpen() = %d, %v, want 1", open, err)
	}

	n, err := repo.FinishOpen(base.Add(time.Hour + time.Second))
	if err != nil || n != 1 {
		t.Errorf("FinishOpen() = %d, %v, want 1", n, err)
	}

	episodes, err := repo.GetEpisodesSince(base)
	if err != nil {
		t.Fatalf("GetEpisodesSince() error: %v", err)
	}
	if len(episodes) != 4 {
		t.Errorf("GetEpisodesSince() returned %d episodes, want 4", len(episodes))
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	summary, err = repo.GetSummary()
	if err != nil || summary.EpisodeCount != 0 {
		t.Errorf("after Clear() summary = %+v, %v", summary, err)
	}
}

func TestEmptySummary(t *testing.T) {
	repo := newTestRepo(t)
	summary, err := repo.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary() error: %v", err)
	}
	if summary.EpisodeCount != 0 || summary.TotalMs != 0 {
		t.Errorf("summary = %+v, want zero", summary)
	}
}

func TestRecorder(t *testing.T) {
	repo := newTestRepo(t)
	rec := NewRecorder(repo)
	base := time.Unix(1700000000, 0)

	// hiding without an open episode is a no-op
	rec.AnnotationHidden(base)

	rec.AnnotationShown(window.Point{X: 5, Y: 5}, base, base.Add(250*time.Millisecond))
	rec.AnnotationHidden(base.Add(310 * time.Millisecond))

	rec.AnnotationShown(window.Point{X: 6, Y: 5}, base.Add(310*time.Millisecond), base.Add(time.Second))
	rec.Flush(base.Add(2 * time.Second))

	episodes, err := repo.GetEpisodesSince(base)
	if err != nil {
		t.Fatalf("GetEpisodesSince() error: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("recorded %d episodes, want 2", len(episodes))
	}
	if episodes[0].X != 5 || episodes[0].VisibleMs != 60 {
		t.Errorf("first episode = %+v", episodes[0])
	}
	if episodes[1].Open() || episodes[1].VisibleMs != 1000 {
		t.Errorf("second episode = %+v", episodes[1])
	}
}
