package models

import (
	"time"

	"gorm.io/gorm"
)

// IdleEpisode is one stretch during which the idle annotation was visible
type IdleEpisode struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	X          float64        `gorm:"not null" json:"x"`
	Y          float64        `gorm:"not null" json:"y"`
	LastMoveAt time.Time      `gorm:"not null" json:"last_move_at"`
	ShownAt    time.Time      `gorm:"not null;index" json:"shown_at"`
	HiddenAt   *time.Time     `json:"hidden_at,omitempty"`
	VisibleMs  int64          `gorm:"not null;default:0" json:"visible_ms"` // Visible duration in milliseconds
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Open reports whether the annotation is still showing for this episode
func (e *IdleEpisode) Open() bool {
	return e.HiddenAt == nil
}

type EpisodeSummary struct {
	EpisodeCount int   `json:"episode_count"`
	TotalMs      int64 `json:"total_ms"`
	LongestMs    int64 `json:"longest_ms"`
}

type Report struct {
	Variant      string         `json:"variant"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      time.Time      `json:"ended_at"`
	Summary      EpisodeSummary `json:"summary"`
	AverageMs    float64        `json:"average_ms"`
	IdleShare    float64        `json:"idle_share"` // Percentage of the session with the annotation visible
	OpenEpisodes int            `json:"open_episodes"`
	GeneratedAt  time.Time      `json:"generated_at"`
}
