package report

import (
	"strings"
	"testing"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDailyLayoutOrder(t *testing.T) {
	input := DailyReportInput{
		Date: "2026-01-15",
		Metrics: activity.DailyMetrics{
			WorkSeconds:          28800,
			MaxContinuousSeconds: 5400,
			NightWorkSeconds:     600,
			TopApps:              []activity.AppSeconds{{App: "VS Code", Seconds: 14400}},
		},
		Analysis: &analyzer.AnalysisResult{
			Summary:  "Great focus today.",
			Insights: []string{"Strong streak"},
			Tip:      "Keep it up",
		},
		ServerURL: "http://localhost:5600",
		Hostname:  "myhost",
	}

	blocks := FormatDaily(input)
	require.True(t, len(blocks) >= 8)

	assert.Equal(t, "header", blocks[0].Type)
	assert.Contains(t, blocks[0].Text.Text, "2026-01-15")

	assert.Equal(t, "section", blocks[1].Type)
	assert.Contains(t, blocks[1].Text.Text, "Great focus")

	assert.Equal(t, "divider", blocks[2].Type)
	assert.Equal(t, "section", blocks[3].Type)
	require.Len(t, blocks[3].Fields, 4)

	assert.Empty(t, Validate(blocks))
}

func TestFormatDailyOmitsOptionalSectionsWhenAbsent(t *testing.T) {
	input := DailyReportInput{
		Date: "2026-01-15",
		Metrics: activity.DailyMetrics{
			WorkSeconds: 3600,
		},
	}
	blocks := FormatDaily(input)

	for _, b := range blocks {
		if b.Text != nil {
			assert.NotContains(t, b.Text.Text, "Dashboard")
		}
	}
}

func TestFormatDailyIncludesDashboardLinkWhenServerURLSet(t *testing.T) {
	input := DailyReportInput{
		Date:      "2026-01-15",
		Metrics:   activity.DailyMetrics{WorkSeconds: 3600},
		ServerURL: "http://localhost:5600",
		Hostname:  "myhost",
	}
	blocks := FormatDaily(input)
	found := false
	for _, b := range blocks {
		if b.Text != nil && strings.Contains(b.Text.Text, "Dashboard") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFormatWeeklyPrefersSlackFileIDOverURL(t *testing.T) {
	input := WeeklyReportInput{
		DateRangeLabel:    "2026-01-05 to 2026-01-11",
		ImageSlackFileID:  "F123",
		ImageSlackFileURL: "https://files.example.com/img.png",
		ImageURL:          "https://example.com/fallback.png",
	}
	blocks := FormatWeekly(input)

	var imgBlock *Block
	for i := range blocks {
		if blocks[i].Type == "image" {
			imgBlock = &blocks[i]
			break
		}
	}
	require.NotNil(t, imgBlock)
	require.NotNil(t, imgBlock.SlackFile)
	assert.Equal(t, "F123", imgBlock.SlackFile.ID)
}

func TestCreateWeeklyReportMrkdwnTruncates(t *testing.T) {
	longInsights := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		longInsights = append(longInsights, "a fairly long insight line that takes up plenty of characters")
	}
	input := WeeklyReportInput{
		DateRangeLabel: "2026-01-05 to 2026-01-11",
		Analysis: &analyzer.WeeklyAnalysisResult{
			Title:      "Week in review",
			Summary:    "summary",
			Insights:   longInsights,
			NextAction: "keep going",
		},
	}
	out := CreateWeeklyReportMrkdwn(input)
	assert.LessOrEqual(t, len(out), weeklyMrkdwnLimit)
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestCreateWeeklyReportMrkdwnFitsUnderLimitWhenShort(t *testing.T) {
	input := WeeklyReportInput{
		DateRangeLabel: "2026-01-05 to 2026-01-11",
		Analysis: &analyzer.WeeklyAnalysisResult{
			Title:      "Week in review",
			Summary:    "summary",
			Insights:   []string{"one"},
			NextAction: "keep going",
		},
	}
	out := CreateWeeklyReportMrkdwn(input)
	assert.False(t, strings.HasSuffix(out, "…"))
}
