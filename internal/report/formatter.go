package report

import (
	"fmt"
	"strings"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
)

const weeklyMrkdwnLimit = 3500

var rankMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// DailyReportInput carries everything the daily layout needs.
type DailyReportInput struct {
	Date      string
	Metrics   activity.DailyMetrics
	Analysis  *analyzer.AnalysisResult
	ServerURL string
	Hostname  string
}

// FormatDaily builds the fixed daily block layout:
// header → optional summary → divider → 4-metric fields → divider →
// top-apps → divider + insights (if any) → divider + tip (if any) →
// divider + dashboard links (if a server URL is configured).
func FormatDaily(input DailyReportInput) []Block {
	blocks := make([]Block, 0, 12)
	blocks = append(blocks, Header(fmt.Sprintf("Daily summary: %s", input.Date)))

	if input.Analysis != nil && input.Analysis.Summary != "" {
		blocks = append(blocks, Section(input.Analysis.Summary))
	}

	blocks = append(blocks, Divider())
	blocks = append(blocks, Fields(
		fmt.Sprintf("*Work*\n%s", formatHM(input.Metrics.WorkSeconds)),
		fmt.Sprintf("*Max continuous*\n%s", formatHM(input.Metrics.MaxContinuousSeconds)),
		fmt.Sprintf("*Night*\n%s", formatHM(input.Metrics.NightWorkSeconds)),
		fmt.Sprintf("*Date*\n%s", input.Date),
	))

	blocks = append(blocks, Divider())
	blocks = append(blocks, Section(topAppsText(input.Metrics.TopApps)))

	if input.Analysis != nil && len(input.Analysis.Insights) > 0 {
		blocks = append(blocks, Divider())
		blocks = append(blocks, Section(insightsText(input.Analysis.Insights)))
	}

	if input.Analysis != nil && input.Analysis.Tip != "" {
		blocks = append(blocks, Divider())
		blocks = append(blocks, Context(fmt.Sprintf("💡 %s", input.Analysis.Tip)))
	}

	if input.ServerURL != "" {
		blocks = append(blocks, Divider())
		blocks = append(blocks, Section(dashboardLinksText(input.ServerURL, input.Hostname, input.Date)))
	}

	return blocks
}

// WeeklyReportInput carries everything the weekly layout needs.
type WeeklyReportInput struct {
	DateRangeLabel    string
	DailyMetrics      []activity.DailyMetrics
	Projects          activity.EditorProjectMetrics
	AvgWakeMinutes    *float64
	AvgSleepMinutes   *float64
	Analysis          *analyzer.WeeklyAnalysisResult
	ImageSlackFileID  string
	ImageSlackFileURL string
	ImageURL          string
}

// FormatWeekly builds the fixed weekly block layout:
// header with date range → divider → fields (total work, avg/day, avg
// wake, avg sleep) → project ranking → optional image (a slack_file.id
// source, else ImageSlackFileURL, else ImageURL; both URLs are emitted
// as an image_url source, not as a slack_file.url source) → AI analysis
// sections → context footer carrying next action.
func FormatWeekly(input WeeklyReportInput) []Block {
	blocks := make([]Block, 0, 12)
	blocks = append(blocks, Header(fmt.Sprintf("Weekly summary: %s", input.DateRangeLabel)))
	blocks = append(blocks, Divider())

	total, avgPerDay := weeklyTotals(input.DailyMetrics)
	blocks = append(blocks, Fields(
		fmt.Sprintf("*Total work*\n%s", formatHM(total)),
		fmt.Sprintf("*Avg/day*\n%s", formatHM(avgPerDay)),
		fmt.Sprintf("*Avg wake*\n%s", formatOptionalMinute(input.AvgWakeMinutes)),
		fmt.Sprintf("*Avg sleep*\n%s", formatOptionalMinute(input.AvgSleepMinutes)),
	))

	blocks = append(blocks, Section(projectRankingText(input.Projects.Projects)))

	if img, ok := weeklyImageBlock(input); ok {
		blocks = append(blocks, img)
	}

	if input.Analysis != nil {
		blocks = append(blocks, Divider())
		blocks = append(blocks, Section(fmt.Sprintf("*%s*\n%s", input.Analysis.Title, input.Analysis.Summary)))
		if len(input.Analysis.Insights) > 0 {
			blocks = append(blocks, Section(insightsText(input.Analysis.Insights)))
		}
		blocks = append(blocks, Context(fmt.Sprintf("➡️ %s", input.Analysis.NextAction)))
	}

	return blocks
}

func weeklyImageBlock(input WeeklyReportInput) (Block, bool) {
	const altText = "Weekly activity heatmap"
	switch {
	case input.ImageSlackFileID != "":
		return ImageFile(input.ImageSlackFileID, altText), true
	case input.ImageSlackFileURL != "":
		return ImageURL(input.ImageSlackFileURL, altText), true
	case input.ImageURL != "":
		return ImageURL(input.ImageURL, altText), true
	default:
		return Block{}, false
	}
}

// CreateWeeklyReportMrkdwn renders a single plain-text-plus-markdown
// string equivalent to the weekly layout, for delivery channels (file
// upload captions) that accept only text, truncated to at most
// weeklyMrkdwnLimit bytes, ending in an ellipsis, when over.
func CreateWeeklyReportMrkdwn(input WeeklyReportInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Weekly summary: %s*\n\n", input.DateRangeLabel)

	total, avgPerDay := weeklyTotals(input.DailyMetrics)
	fmt.Fprintf(&b, "Total work: %s\n", formatHM(total))
	fmt.Fprintf(&b, "Avg/day: %s\n", formatHM(avgPerDay))
	fmt.Fprintf(&b, "Avg wake: %s\n", formatOptionalMinute(input.AvgWakeMinutes))
	fmt.Fprintf(&b, "Avg sleep: %s\n\n", formatOptionalMinute(input.AvgSleepMinutes))

	b.WriteString(projectRankingText(input.Projects.Projects))
	b.WriteString("\n\n")

	if input.Analysis != nil {
		fmt.Fprintf(&b, "*%s*\n%s\n", input.Analysis.Title, input.Analysis.Summary)
		if len(input.Analysis.Insights) > 0 {
			b.WriteString(insightsText(input.Analysis.Insights))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Next action: %s\n", input.Analysis.NextAction)
	}

	return truncate(b.String(), weeklyMrkdwnLimit)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + ellipsis
}

func weeklyTotals(metrics []activity.DailyMetrics) (total, avgPerDay float64) {
	for _, m := range metrics {
		total += m.WorkSeconds
	}
	if len(metrics) > 0 {
		avgPerDay = total / float64(len(metrics))
	}
	return total, avgPerDay
}

func topAppsText(apps []activity.AppSeconds) string {
	if len(apps) == 0 {
		return "No app activity recorded."
	}
	var b strings.Builder
	b.WriteString("*Top apps*\n")
	for i, a := range apps {
		rank := i + 1
		marker, ok := rankMedals[rank]
		if !ok {
			marker = "•"
		}
		fmt.Fprintf(&b, "%s %s — %s\n", marker, a.App, formatHM(a.Seconds))
	}
	return strings.TrimRight(b.String(), "\n")
}

func projectRankingText(projects []activity.ProjectSeconds) string {
	if len(projects) == 0 {
		return "No project activity recorded."
	}
	var b strings.Builder
	b.WriteString("*Projects*\n")
	for i, p := range projects {
		rank := i + 1
		marker, ok := rankMedals[rank]
		if !ok {
			marker = "•"
		}
		fmt.Fprintf(&b, "%s %s — %s\n", marker, p.Project, formatHM(p.Seconds))
	}
	return strings.TrimRight(b.String(), "\n")
}

func insightsText(insights []string) string {
	var b strings.Builder
	b.WriteString("*Insights*\n")
	for _, i := range insights {
		fmt.Fprintf(&b, "• %s\n", i)
	}
	return strings.TrimRight(b.String(), "\n")
}

func dashboardLinksText(serverURL, hostname, date string) string {
	base := strings.TrimRight(serverURL, "/")
	return fmt.Sprintf("*Dashboard*\n<%s/#/timeline?host=%s&date=%s|Open timeline>", base, hostname, date)
}

func formatOptionalMinute(minute *float64) string {
	if minute == nil {
		return "—"
	}
	total := int(*minute + 0.5)
	h := (total / 60) % 24
	m := total % 60
	return fmt.Sprintf("%02d:%02d", h, m)
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
