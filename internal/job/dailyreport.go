package job

import (
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
	"github.com/posaune0423/aw-analyzer/internal/chat"
	"github.com/posaune0423/aw-analyzer/internal/report"
	"github.com/posaune0423/aw-analyzer/internal/state"
)

const dailyReportID = "daily-report"

// DailyReport generates a richer yesterday-recap than DailySummary: it
// runs the LLM analyzer (falling back to the deterministic generator on
// any failure), formats the result as report blocks, and attempts
// delivery through a chat webhook. Chat delivery failures are logged
// but never fail the job; the daily marker is written either way so
// the report only generates once per local day.
type DailyReport struct {
	TargetHour   int
	TargetMinute int
	Webhook      *chat.Webhook
}

// NewDailyReport builds the daily-report job. webhook may be nil, in
// which case the job still runs and notifies locally but never
// attempts chat delivery.
func NewDailyReport(targetHour, targetMinute int, webhook *chat.Webhook) *DailyReport {
	return &DailyReport{TargetHour: targetHour, TargetMinute: targetMinute, Webhook: webhook}
}

func (j *DailyReport) ID() string { return dailyReportID }

func (j *DailyReport) ShouldRun(jc *Context) (bool, error) {
	local := jc.Now.Add(jc.Offset)
	if !atOrAfter(local.Hour(), local.Minute(), j.TargetHour, j.TargetMinute) {
		return false, nil
	}

	today := local.Format("2006-01-02")
	marker, _ := jc.State.GetString(state.DailyMarkerKey(dailyReportID, today))
	return marker != today, nil
}

func (j *DailyReport) Run(jc *Context) (Result, error) {
	local := jc.Now.Add(jc.Offset)
	yesterday := local.AddDate(0, 0, -1)
	dateKey := yesterday.Format("2006-01-02")
	yRange := yesterdayRange(yesterday)

	metrics, err := jc.Provider.GetMetrics(jc.Ctx, yRange)
	if err != nil {
		return Result{}, err
	}

	input := analyzer.DailyInput{Date: dateKey, Metrics: *metrics}
	result := j.generate(jc, input)

	blocks := report.FormatDaily(report.DailyReportInput{
		Date:      dateKey,
		Metrics:   *metrics,
		Analysis:  &result,
		ServerURL: jc.ServerURL,
		Hostname:  jc.Hostname,
	})

	if violations := report.Validate(blocks); len(violations) > 0 {
		jc.Log.WithFields(map[string]interface{}{"violations": violations}).Warn("daily report blocks failed validation, skipping chat delivery")
	} else if j.Webhook != nil {
		if err := j.Webhook.Post(jc.Ctx, blocks); err != nil {
			jc.Log.WithError(err).Warn("failed to deliver daily report to chat")
		}
	}

	today := local.Format("2006-01-02")
	if err := jc.State.Set(state.DailyMarkerKey(dailyReportID, today), today); err != nil {
		jc.Log.WithError(err).Warn("failed to persist daily-report marker")
	}

	return Notify("Daily report", "Yesterday's report was generated."), nil
}

// generate prefers the LLM analyzer, falling back to the deterministic
// generator whenever the analyzer is unavailable or errors.
func (j *DailyReport) generate(jc *Context, input analyzer.DailyInput) analyzer.AnalysisResult {
	if jc.Analyzer != nil {
		if result, err := jc.Analyzer.GenerateDaily(jc.Ctx, input); err == nil {
			return *result
		} else {
			jc.Log.WithError(err).Warn("daily analyzer failed, using fallback")
		}
	}
	return analyzer.DailyFallback(input)
}
