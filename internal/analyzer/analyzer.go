package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

const (
	dailySystemPrompt = "You are a terse personal-productivity analyst. Given a single day's " +
		"activity metrics, respond with JSON containing exactly the fields " +
		"\"summary\", \"insights\" (an array of short strings), and \"tip\". " +
		"Be specific about the numbers given; do not invent data."
	weeklySystemPrompt = "You are a terse personal-productivity analyst. Given a week of daily " +
		"activity metrics and a project breakdown, respond with JSON containing " +
		"exactly the fields \"title\", \"summary\", \"insights\" (an array of " +
		"short strings), and \"nextAction\". Be specific about the numbers " +
		"given; do not invent data."
)

// Analyzer calls a remote LLM to produce structured analysis, with a
// deterministic fallback available on any failure.
type Analyzer struct {
	cfg  Config
	http *httpclient.Client
}

// New builds an Analyzer. client may carry a rate limiter/circuit
// breaker; see internal/httpclient.
func New(cfg Config, client *httpclient.Client) *Analyzer {
	return &Analyzer{cfg: cfg, http: client}
}

// chatRequest/chatResponse mirror a minimal OpenAI-compatible chat
// completion contract, the one the teacher's provider speaks.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateDaily produces a daily AnalysisResult or a *pkg/errors.Error
// with kind config_error, api_error, or parse_error.
func (a *Analyzer) GenerateDaily(ctx context.Context, input DailyInput) (*AnalysisResult, error) {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return nil, awerrors.Config("AI API key is required")
	}

	prompt := dailyUserPrompt(input)
	content, err := a.complete(ctx, dailySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, awerrors.Parse("AI response was not valid JSON", err)
	}
	if err := validateDaily(result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateWeekly is the weekly-variant counterpart of GenerateDaily.
func (a *Analyzer) GenerateWeekly(ctx context.Context, input WeeklyInput) (*WeeklyAnalysisResult, error) {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return nil, awerrors.Config("AI API key is required")
	}

	prompt := weeklyUserPrompt(input)
	content, err := a.complete(ctx, weeklySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var result WeeklyAnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, awerrors.Parse("AI response was not valid JSON", err)
	}
	if err := validateWeekly(result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *Analyzer) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	raw, status, err := a.http.PostJSON(ctx, a.cfg.BaseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + a.cfg.APIKey,
	}, req)
	if err != nil {
		return "", awerrors.API(fmt.Sprintf("AI API request failed: %v", err))
	}
	if status < 200 || status >= 300 {
		return "", awerrors.API(fmt.Sprintf("AI API returned status %d: %s", status, string(raw)))
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", awerrors.Parse("failed to decode AI response envelope", err)
	}
	if len(resp.Choices) == 0 {
		return "", awerrors.Parse("AI response had no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func validateDaily(r AnalysisResult) error {
	if strings.TrimSpace(r.Summary) == "" {
		return awerrors.Parse("AI response missing non-empty summary", nil)
	}
	if len(r.Insights) == 0 {
		return awerrors.Parse("AI response missing insights", nil)
	}
	if strings.TrimSpace(r.Tip) == "" {
		return awerrors.Parse("AI response missing non-empty tip", nil)
	}
	return nil
}

func validateWeekly(r WeeklyAnalysisResult) error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Summary) == "" || strings.TrimSpace(r.NextAction) == "" {
		return awerrors.Parse("AI response missing required weekly fields", nil)
	}
	if len(r.Insights) == 0 {
		return awerrors.Parse("AI response missing insights", nil)
	}
	return nil
}

func dailyUserPrompt(input DailyInput) string {
	var apps strings.Builder
	for _, a := range input.Metrics.TopApps {
		fmt.Fprintf(&apps, "- %s: %.0fs\n", a.App, a.Seconds)
	}
	return fmt.Sprintf(
		"Date: %s\nWork seconds: %.0f\nMax continuous seconds: %.0f\nNight work seconds: %.0f\nTop apps:\n%s",
		input.Date, input.Metrics.WorkSeconds, input.Metrics.MaxContinuousSeconds, input.Metrics.NightWorkSeconds, apps.String(),
	)
}

func weeklyUserPrompt(input WeeklyInput) string {
	var days strings.Builder
	for i, m := range input.DailyMetrics {
		fmt.Fprintf(&days, "Day %d: work=%.0fs maxContinuous=%.0fs\n", i+1, m.WorkSeconds, m.MaxContinuousSeconds)
	}
	var projects strings.Builder
	for _, p := range input.Projects.Projects {
		fmt.Fprintf(&projects, "- %s: %.0fs\n", p.Project, p.Seconds)
	}
	return fmt.Sprintf(
		"Range: %s\n%sProjects:\n%sAvg wake minute: %v\nAvg sleep minute: %v\n",
		input.DateRangeLabel, days.String(), projects.String(), input.AvgWakeMinutes, input.AvgSleepMinutes,
	)
}
