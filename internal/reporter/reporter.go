package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"pointerapp/internal/journal"
	"pointerapp/internal/models"
	"pointerapp/pkg/utils"
)

// Reporter builds the end-of-session summary from the journal
type Reporter struct {
	variant   string
	repo      *journal.Repository
	startedAt time.Time
}

// New creates a new reporter for a session that started at startedAt
func New(variant string, repo *journal.Repository, startedAt time.Time) *Reporter {
	return &Reporter{
		variant:   variant,
		repo:      repo,
		startedAt: startedAt,
	}
}

// GenerateReport summarizes the session up to end
func (r *Reporter) GenerateReport(end time.Time) (*models.Report, error) {
	summary, err := r.repo.GetSummary()
	if err != nil {
		return nil, fmt.Errorf("failed to get episode summary: %w", err)
	}

	open, err := r.repo.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to count open episodes: %w", err)
	}

	report := &models.Report{
		Variant:      r.variant,
		StartedAt:    r.startedAt,
		EndedAt:      end,
		Summary:      *summary,
		OpenEpisodes: int(open),
		GeneratedAt:  time.Now(),
	}

	if summary.EpisodeCount > 0 {
		report.AverageMs = float64(summary.TotalMs) / float64(summary.EpisodeCount)
	}

	if session := end.Sub(r.startedAt).Milliseconds(); session > 0 {
		report.IdleShare = float64(summary.TotalMs) / float64(session) * 100.0
	}

	return report, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Session Report - %s\n", report.Variant)
	output += fmt.Sprintf("Session: %s to %s (%s)\n",
		report.StartedAt.Format("2006-01-02 15:04:05"),
		report.EndedAt.Format("2006-01-02 15:04:05"),
		utils.FormatRoundedUnit(report.EndedAt.Sub(report.StartedAt)))

	if report.Summary.EpisodeCount == 0 {
		output += "The pointer never rested long enough to show the annotation.\n"
		return output
	}

	output += fmt.Sprintf("%-20s %10d\n", "Idle episodes", report.Summary.EpisodeCount)
	output += fmt.Sprintf("%-20s %10s\n", "Annotation shown", utils.FormatRoundedUnit(time.Duration(report.Summary.TotalMs)*time.Millisecond))
	output += fmt.Sprintf("%-20s %10s\n", "Longest episode", utils.FormatRoundedUnit(time.Duration(report.Summary.LongestMs)*time.Millisecond))
	output += fmt.Sprintf("%-20s %9.1f%%\n", "Share of session", report.IdleShare)

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
