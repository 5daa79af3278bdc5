package analyzer

import (
	"fmt"

	"github.com/posaune0423/aw-analyzer/internal/activity"
)

// significantDayThreshold is the minimum work-seconds for a day to count
// as "having data" when averaging across a week; days below it (e.g. a
// day the machine was mostly off) are excluded from the divisor.
const significantDayThreshold = 3600

// longFocusThreshold is the maxContinuousSeconds at or above which the daily
// tip suggests taking a break; below it, the streak is framed as a win.
const longFocusThreshold = 2 * 3600

// DailyFallback is the deterministic, non-networked stand-in for
// GenerateDaily. For a given input it always returns the same output;
// it never touches the network and never returns an error.
func DailyFallback(input DailyInput) AnalysisResult {
	m := input.Metrics
	workStr := formatDuration(m.WorkSeconds)
	focusStr := formatDuration(m.MaxContinuousSeconds)
	topApp, topSeconds := topAppOf(m.TopApps)

	summary := fmt.Sprintf(
		"You worked %s on %s, with a longest focus streak of %s on %s.",
		workStr, input.Date, focusStr, topApp,
	)

	insights := dailyInsights(m, topApp, topSeconds)
	tip := dailyTip(m)

	return AnalysisResult{Summary: summary, Insights: insights, Tip: tip}
}

func dailyInsights(m activity.DailyMetrics, topApp string, topSeconds float64) []string {
	insights := make([]string, 0, 4)

	if m.WorkSeconds >= 8*3600 {
		insights = append(insights, fmt.Sprintf("Solid full day: %s of tracked work.", formatDuration(m.WorkSeconds)))
	} else if m.WorkSeconds > 0 {
		insights = append(insights, fmt.Sprintf("Tracked %s of work today.", formatDuration(m.WorkSeconds)))
	}

	if topApp != "" {
		insights = append(insights, fmt.Sprintf("%s was your top app at %s.", topApp, formatDuration(topSeconds)))
	}

	if m.MaxContinuousSeconds >= 90*60 {
		insights = append(insights, fmt.Sprintf("Your longest focus streak ran %s.", formatDuration(m.MaxContinuousSeconds)))
	}

	if m.NightWorkSeconds > 0 {
		insights = append(insights, fmt.Sprintf("%s of tonight's work happened after hours.", formatDuration(m.NightWorkSeconds)))
	}

	if len(insights) == 0 {
		insights = append(insights, "No significant activity recorded.")
	}
	return insights
}

func dailyTip(m activity.DailyMetrics) string {
	if m.MaxContinuousSeconds >= longFocusThreshold {
		return "Consider a short break next time a streak runs this long."
	}
	if m.WorkSeconds == 0 {
		return "No work tracked; check that the watchers are running."
	}
	return "Keep the momentum from today's focus streak going tomorrow."
}

// WeeklyFallback is the deterministic, non-networked stand-in for
// GenerateWeekly.
func WeeklyFallback(input WeeklyInput) WeeklyAnalysisResult {
	avg, days := AvgNotAfkSecondsPerDay(input.DailyMetrics)
	totalWork := 0.0
	for _, d := range input.DailyMetrics {
		totalWork += d.WorkSeconds
	}

	summary := fmt.Sprintf(
		"Across %d days this week, you averaged %s/day of work on days with activity (%s total).",
		days, formatDuration(avg), formatDuration(totalWork),
	)

	insights := weeklyInsights(input)
	nextAction := weeklyNextAction(input)

	return WeeklyAnalysisResult{
		Title:      fmt.Sprintf("Weekly summary: %s", input.DateRangeLabel),
		Summary:    summary,
		Insights:   insights,
		NextAction: nextAction,
	}
}

// AvgNotAfkSecondsPerDay averages WorkSeconds over only the days whose
// total is at least significantDayThreshold; days below it are dropped
// from the divisor, not counted as zero. days is always len(metrics).
func AvgNotAfkSecondsPerDay(metrics []activity.DailyMetrics) (avg float64, days int) {
	days = len(metrics)
	var sum float64
	var significant int
	for _, m := range metrics {
		if m.WorkSeconds >= significantDayThreshold {
			sum += m.WorkSeconds
			significant++
		}
	}
	if significant == 0 {
		return 0, days
	}
	return sum / float64(significant), days
}

func weeklyInsights(input WeeklyInput) []string {
	insights := make([]string, 0, 3)

	if len(input.Projects.Projects) > 0 {
		top := input.Projects.Projects[0]
		insights = append(insights, fmt.Sprintf("%s was your top project at %s.", top.Project, formatDuration(top.Seconds)))
	}

	if input.AvgWakeMinutes != nil {
		insights = append(insights, fmt.Sprintf("Average wake time was %s.", formatMinuteOfDay(*input.AvgWakeMinutes)))
	}
	if input.AvgSleepMinutes != nil {
		insights = append(insights, fmt.Sprintf("Average sleep time was %s.", formatMinuteOfDay(*input.AvgSleepMinutes)))
	}

	if len(insights) == 0 {
		insights = append(insights, "Not enough data this week to surface a trend.")
	}
	return insights
}

func weeklyNextAction(input WeeklyInput) string {
	avg, _ := AvgNotAfkSecondsPerDay(input.DailyMetrics)
	if avg == 0 {
		return "Make sure the watchers are running this week."
	}
	if avg >= 8*3600 {
		return "Keep an eye on total hours; consider trimming a day back next week."
	}
	return "Aim to match your most productive day from this week again next week."
}

func topAppOf(apps []activity.AppSeconds) (string, float64) {
	if len(apps) == 0 {
		return "", 0
	}
	return apps[0].App, apps[0].Seconds
}

// formatDuration renders seconds as "Xh Ym", "Xh", or "Ym", omitting a
// zero component rather than printing it.
func formatDuration(seconds float64) string {
	totalMinutes := int(seconds) / 60
	h := totalMinutes / 60
	m := totalMinutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// formatMinuteOfDay renders a fractional minute-of-day average as HH:MM.
func formatMinuteOfDay(minute float64) string {
	total := int(minute + 0.5)
	h := (total / 60) % 24
	m := total % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
