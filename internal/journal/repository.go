package journal

import (
	"time"

	"pointerapp/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all journal operations for idle episodes
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new idle episode
func (r *Repository) Create(episode *models.IdleEpisode) error {
	result := r.db.Create(episode)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert idle episode")
	}
	return nil
}

// GetByID retrieves an idle episode by its ID
func (r *Repository) GetByID(id uint) (*models.IdleEpisode, error) {
	var episode models.IdleEpisode
	result := r.db.First(&episode, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get idle episode")
	}
	return &episode, nil
}

// Finish marks an episode as hidden at the given time and stores how long
// it was visible
func (r *Repository) Finish(id uint, hiddenAt time.Time) error {
	episode, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if !episode.Open() {
		return errors.Errorf("idle episode %d already finished", id)
	}

	visible := hiddenAt.Sub(episode.ShownAt)
	if visible < 0 {
		visible = 0
	}

	result := r.db.Model(episode).Updates(map[string]any{
		"hidden_at":  hiddenAt,
		"visible_ms": visible.Milliseconds(),
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to finish idle episode")
	}
	return nil
}

// FinishOpen closes every episode still showing, used at shutdown
func (r *Repository) FinishOpen(at time.Time) (int, error) {
	var open []*models.IdleEpisode
	if err := r.db.Where("hidden_at IS NULL").Find(&open).Error; err != nil {
		return 0, errors.Wrap(err, "failed to query open idle episodes")
	}

	for _, episode := range open {
		if err := r.Finish(episode.ID, at); err != nil {
			return 0, err
		}
	}
	return len(open), nil
}

// GetEpisodesSince retrieves all episodes shown since a given time
func (r *Repository) GetEpisodesSince(since time.Time) ([]*models.IdleEpisode, error) {
	var episodes []*models.IdleEpisode
	result := r.db.Where("shown_at >= ?", since).Order("shown_at ASC").Find(&episodes)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query idle episodes")
	}

	return episodes, nil
}

// GetSummary returns aggregated totals over finished episodes
func (r *Repository) GetSummary() (*models.EpisodeSummary, error) {
	var summary models.EpisodeSummary

	result := r.db.Model(&models.IdleEpisode{}).
		Select("COUNT(*) as episode_count, COALESCE(SUM(visible_ms), 0) as total_ms, COALESCE(MAX(visible_ms), 0) as longest_ms").
		Where("hidden_at IS NOT NULL").
		Scan(&summary)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query episode summary")
	}

	return &summary, nil
}

// CountOpen returns how many episodes are still showing
func (r *Repository) CountOpen() (int64, error) {
	var count int64
	if err := r.db.Model(&models.IdleEpisode{}).Where("hidden_at IS NULL").Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count open idle episodes")
	}
	return count, nil
}

// Clear removes all episodes
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM idle_episodes")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear idle episodes")
	}
	return nil
}
