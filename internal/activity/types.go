// Package activity translates ActivityWatch-style event buckets into the
// fixed-shape metrics the rest of the system consumes. It owns no state
// across calls; every exported method is self-contained.
package activity

import "time"

// TimeRange is an inclusive-start, end-of-day-end window. Every provider
// query is derived from one.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// AppSeconds is one entry of DailyMetrics.TopApps.
type AppSeconds struct {
	App     string  `json:"app"`
	Seconds float64 `json:"seconds"`
}

// DailyMetrics is the normalized, fixed-shape DTO jobs see for a single
// query window.
type DailyMetrics struct {
	WorkSeconds          float64      `json:"workSeconds"`
	AfkSeconds           float64      `json:"afkSeconds"`
	NightWorkSeconds     float64      `json:"nightWorkSeconds"`
	MaxContinuousSeconds float64      `json:"maxContinuousSeconds"`
	TopApps              []AppSeconds `json:"topApps"`
}

// AfkMetrics is the {afkSeconds, notAfkSeconds} summary for a window.
type AfkMetrics struct {
	AfkSeconds    float64 `json:"afkSeconds"`
	NotAfkSeconds float64 `json:"notAfkSeconds"`
}

// AfkStatus is the closed set of statuses a raw AFK event can carry.
// Anything else is "other" and is ignored by the binner and the sleep
// analyzer.
type AfkStatus string

const (
	StatusAfk    AfkStatus = "afk"
	StatusNotAfk AfkStatus = "not-afk"
	StatusOther  AfkStatus = "other"
)

// AfkEvent is one raw AFK span.
type AfkEvent struct {
	Timestamp time.Time
	Duration  float64
	Status    AfkStatus
}

// ProjectSeconds is one entry of EditorProjectMetrics.Projects.
type ProjectSeconds struct {
	Project string  `json:"project"`
	Seconds float64 `json:"seconds"`
}

// EditorProjectMetrics is the normalized editor-project breakdown.
type EditorProjectMetrics struct {
	Projects []ProjectSeconds `json:"projects"`
}

// unknownApp is the bucket label for events whose app is not reported.
const unknownApp = "Unknown"
