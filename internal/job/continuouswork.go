package job

import (
	"fmt"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
)

const continuousWorkAlertID = "continuous-work-alert"

// ContinuousWorkAlert fires a cooldown-gated alert whenever the
// longest uninterrupted streak so far today reaches or exceeds
// ThresholdSeconds.
type ContinuousWorkAlert struct {
	ThresholdSeconds float64
	CooldownMs       int64
}

// NewContinuousWorkAlert builds the continuous-work-alert job.
func NewContinuousWorkAlert(thresholdSeconds float64, cooldownMs int64) *ContinuousWorkAlert {
	return &ContinuousWorkAlert{ThresholdSeconds: thresholdSeconds, CooldownMs: cooldownMs}
}

func (j *ContinuousWorkAlert) ID() string { return continuousWorkAlertID }

// ShouldRun is always true; the gating happens in Run via NoNotify.
func (j *ContinuousWorkAlert) ShouldRun(jc *Context) (bool, error) {
	return true, nil
}

func (j *ContinuousWorkAlert) Run(jc *Context) (Result, error) {
	local := jc.Now.Add(jc.Offset)
	metrics, err := todayMetrics(jc, local)
	if err != nil {
		return Result{}, err
	}

	if metrics.MaxContinuousSeconds < j.ThresholdSeconds {
		return NoNotify("max continuous seconds below threshold"), nil
	}

	title := "Long focus streak"
	body := fmt.Sprintf("You've been continuously active for %s.", formatHM(metrics.MaxContinuousSeconds))
	return NotifyWithCooldown(title, body, "cooldown:"+continuousWorkAlertID, j.CooldownMs), nil
}

// todayMetrics fetches the day-so-far window (local midnight through
// the tick's local instant) that any job gating on today's
// in-progress metrics needs.
func todayMetrics(jc *Context, local time.Time) (*activity.DailyMetrics, error) {
	startOfToday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return jc.Provider.GetMetrics(jc.Ctx, activity.TimeRange{Start: startOfToday, End: local})
}
