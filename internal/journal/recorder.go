package journal

import (
	"log"
	"time"

	"pointerapp/internal/models"
	"pointerapp/pkg/window"
)

// Recorder turns annotation transitions into idle episodes. Journal failures
// are logged and otherwise ignored; they never reach the frame loop.
type Recorder struct {
	repo   *Repository
	openID uint
}

// NewRecorder creates a recorder writing to repo
func NewRecorder(repo *Repository) *Recorder {
	return &Recorder{repo: repo}
}

// AnnotationShown opens an episode
func (r *Recorder) AnnotationShown(at window.Point, lastMove, shownAt time.Time) {
	episode := &models.IdleEpisode{
		X:          at.X,
		Y:          at.Y,
		LastMoveAt: lastMove,
		ShownAt:    shownAt,
	}
	if err := r.repo.Create(episode); err != nil {
		log.Printf("Failed to record idle episode: %v", err)
		return
	}
	r.openID = episode.ID
}

// AnnotationHidden closes the open episode
func (r *Recorder) AnnotationHidden(hiddenAt time.Time) {
	if r.openID == 0 {
		return
	}
	if err := r.repo.Finish(r.openID, hiddenAt); err != nil {
		log.Printf("Failed to finish idle episode %d: %v", r.openID, err)
	}
	r.openID = 0
}

// Flush closes the open episode, if any, at the given time
func (r *Recorder) Flush(at time.Time) {
	r.AnnotationHidden(at)
}
