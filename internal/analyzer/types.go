// Package analyzer turns metrics into an AnalysisResult via a remote LLM,
// falling back to a deterministic, non-networked generator whenever the
// LLM path is disabled or fails. The fallback is the reference
// implementation the fixture tests pin against.
package analyzer

import "github.com/posaune0423/aw-analyzer/internal/activity"

// DailyInput is the structured input for a daily AnalysisResult.
type DailyInput struct {
	Date    string
	Metrics activity.DailyMetrics
}

// AnalysisResult is the daily analysis shape.
type AnalysisResult struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
	Tip      string   `json:"tip"`
}

// WeeklyInput is the structured input for a WeeklyAnalysisResult.
type WeeklyInput struct {
	DateRangeLabel  string
	DailyMetrics    []activity.DailyMetrics
	Projects        activity.EditorProjectMetrics
	AvgWakeMinutes  *float64
	AvgSleepMinutes *float64
}

// WeeklyAnalysisResult is the weekly analysis shape; all fields required.
type WeeklyAnalysisResult struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Insights   []string `json:"insights"`
	NextAction string   `json:"nextAction"`
}

// Config carries the analyzer's runtime configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}
