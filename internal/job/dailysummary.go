package job

import (
	"fmt"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/state"
)

const dailySummaryID = "daily-summary"

// DailySummary emits a concise yesterday-recap notification once per
// local day, at or after TargetHour:TargetMinute.
type DailySummary struct {
	TargetHour   int
	TargetMinute int
}

// NewDailySummary builds the daily-summary job. targetHour/targetMinute
// are pure parameters, never hardcode a default caller's time here.
func NewDailySummary(targetHour, targetMinute int) *DailySummary {
	return &DailySummary{TargetHour: targetHour, TargetMinute: targetMinute}
}

func (j *DailySummary) ID() string { return dailySummaryID }

func (j *DailySummary) ShouldRun(jc *Context) (bool, error) {
	local := jc.Now.Add(jc.Offset)
	if !atOrAfter(local.Hour(), local.Minute(), j.TargetHour, j.TargetMinute) {
		return false, nil
	}

	today := local.Format("2006-01-02")
	marker, _ := jc.State.GetString(state.DailyMarkerKey(dailySummaryID, today))
	return marker != today, nil
}

func (j *DailySummary) Run(jc *Context) (Result, error) {
	local := jc.Now.Add(jc.Offset)
	yesterday := local.AddDate(0, 0, -1)
	yRange := yesterdayRange(yesterday)

	metrics, err := jc.Provider.GetMetrics(jc.Ctx, yRange)
	if err != nil {
		return Result{}, err
	}

	today := local.Format("2006-01-02")
	if err := jc.State.Set(state.DailyMarkerKey(dailySummaryID, today), today); err != nil {
		jc.Log.WithError(err).Warn("failed to persist daily-summary marker")
	}

	title := "Yesterday's summary"
	body := fmt.Sprintf("Worked %s, longest focus streak %s.", formatHM(metrics.WorkSeconds), formatHM(metrics.MaxContinuousSeconds))
	return Notify(title, body), nil
}

// yesterdayRange builds a single-day TimeRange for localInstant's civil
// date; Provider.period only reads the date portion of Start/End.
func yesterdayRange(localInstant time.Time) activity.TimeRange {
	return activity.TimeRange{Start: localInstant, End: localInstant}
}

func atOrAfter(hour, minute, targetHour, targetMinute int) bool {
	if hour != targetHour {
		return hour > targetHour
	}
	return minute >= targetMinute
}

func formatHM(seconds float64) string {
	totalMinutes := int(seconds) / 60
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
