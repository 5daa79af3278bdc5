package analyzer

import (
	"context"
	"testing"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGenerateDailyRequiresAPIKey(t *testing.T) {
	a := New(Config{APIKey: ""}, nil)
	_, err := a.GenerateDaily(context.Background(), DailyInput{})
	kind, ok := awerrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, awerrors.KindConfig, kind)
}

func TestGenerateWeeklyRequiresAPIKey(t *testing.T) {
	a := New(Config{APIKey: "  "}, nil)
	_, err := a.GenerateWeekly(context.Background(), WeeklyInput{})
	kind, ok := awerrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, awerrors.KindConfig, kind)
}

func TestValidateDailyRejectsEmptyFields(t *testing.T) {
	_, ok := awerrors.Of(validateDaily(AnalysisResult{}))
	assert.True(t, ok)

	err := validateDaily(AnalysisResult{Summary: "s", Insights: []string{"i"}, Tip: "t"})
	assert.NoError(t, err)
}

func TestValidateWeeklyRejectsMissingFields(t *testing.T) {
	err := validateWeekly(WeeklyAnalysisResult{Title: "t", Summary: "s", Insights: nil, NextAction: "n"})
	kind, ok := awerrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, awerrors.KindParse, kind)

	ok2 := validateWeekly(WeeklyAnalysisResult{Title: "t", Summary: "s", Insights: []string{"i"}, NextAction: "n"})
	assert.NoError(t, ok2)
}

func TestDailyUserPromptIncludesTopApps(t *testing.T) {
	prompt := dailyUserPrompt(DailyInput{
		Date: "2026-01-15",
		Metrics: activity.DailyMetrics{
			WorkSeconds: 3600,
			TopApps:     []activity.AppSeconds{{App: "VS Code", Seconds: 3600}},
		},
	})
	assert.Contains(t, prompt, "VS Code")
	assert.Contains(t, prompt, "2026-01-15")
}
