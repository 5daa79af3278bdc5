package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
	"github.com/posaune0423/aw-analyzer/internal/report"
	"github.com/posaune0423/aw-analyzer/internal/sleepwake"
	"github.com/posaune0423/aw-analyzer/internal/timebucket"
	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

var weeklyReportDays int

var weeklyReportCmd = &cobra.Command{
	Use:   "weekly-report",
	Short: "Run the multi-day report pipeline",
	RunE:  runWeeklyReport,
}

func init() {
	weeklyReportCmd.Flags().IntVar(&weeklyReportDays, "days", 7, "number of completed days to cover (clamped 1-31)")
}

func runWeeklyReport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadCfgAndLogger()
	if err != nil {
		return err
	}

	d, err := buildDeps(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	now := d.clock.Now()
	dateKeys := timebucket.BuildDateKeys(now, weeklyReportDays, d.offset)

	dailyMetrics := make([]activity.DailyMetrics, 0, len(dateKeys))
	for _, key := range dateKeys {
		day, err := time.ParseInLocation("2006-01-02", key, time.UTC)
		if err != nil {
			return err
		}
		m, err := d.provider.GetMetrics(ctx, activity.TimeRange{Start: day, End: day})
		if err != nil {
			return err
		}
		dailyMetrics = append(dailyMetrics, *m)
	}

	fullRange := activity.TimeRange{}
	if len(dateKeys) > 0 {
		start, _ := time.ParseInLocation("2006-01-02", dateKeys[0], time.UTC)
		end, _ := time.ParseInLocation("2006-01-02", dateKeys[len(dateKeys)-1], time.UTC)
		fullRange = activity.TimeRange{Start: start, End: end}
	}

	afkEvents, err := d.provider.GetAfkEvents(ctx, fullRange)
	if err != nil {
		return err
	}
	projects, err := d.provider.GetEditorProjectMetrics(ctx, fullRange)
	if err != nil {
		return err
	}

	sleepResult := sleepwake.Analyze(afkEvents, dateKeys, d.offset)
	buckets := timebucket.BinAfkEvents(afkEvents, dateKeys, d.offset)
	heatmapSVG := report.RenderHeatmapSVG(buckets)

	dateRangeLabel := fmt.Sprintf("%s to %s", dateKeys[0], dateKeys[len(dateKeys)-1])
	weeklyInput := analyzer.WeeklyInput{
		DateRangeLabel:  dateRangeLabel,
		DailyMetrics:    dailyMetrics,
		Projects:        *projects,
		AvgWakeMinutes:  sleepResult.AvgWakeMinutes,
		AvgSleepMinutes: sleepResult.AvgSleepMinutes,
	}

	analysis := generateWeekly(ctx, d, weeklyInput, log)

	reportInput := report.WeeklyReportInput{
		DateRangeLabel:  dateRangeLabel,
		DailyMetrics:    dailyMetrics,
		Projects:        *projects,
		AvgWakeMinutes:  sleepResult.AvgWakeMinutes,
		AvgSleepMinutes: sleepResult.AvgSleepMinutes,
		Analysis:        &analysis,
	}

	if d.uploader != nil {
		result, err := d.uploader.Upload(ctx, "weekly-heatmap.svg", []byte(heatmapSVG), "Weekly activity heatmap", "")
		if err != nil {
			log.WithError(err).Warn("failed to upload weekly heatmap, omitting image block")
		} else {
			reportInput.ImageSlackFileID = result.FileID
		}
	}

	blocks := report.FormatWeekly(reportInput)
	if violations := report.Validate(blocks); len(violations) > 0 {
		log.WithFields(map[string]interface{}{"violations": violations}).Warn("weekly report blocks failed validation, skipping chat delivery")
	} else if d.webhook != nil {
		if err := d.webhook.Post(ctx, blocks); err != nil {
			log.WithError(err).Warn("failed to deliver weekly report to chat")
		}
	}

	fmt.Println(report.CreateWeeklyReportMrkdwn(reportInput))
	return nil
}

// generateWeekly prefers the LLM analyzer, falling back to the
// deterministic generator whenever the analyzer is unavailable or
// errors, the same policy internal/job/dailyreport.go follows for the
// daily path.
func generateWeekly(ctx context.Context, d *deps, input analyzer.WeeklyInput, log *logger.Logger) analyzer.WeeklyAnalysisResult {
	if d.analyzer != nil {
		if result, err := d.analyzer.GenerateWeekly(ctx, input); err == nil {
			return *result
		} else {
			log.WithError(err).Warn("weekly analyzer failed, using fallback")
		}
	}
	return analyzer.WeeklyFallback(input)
}
