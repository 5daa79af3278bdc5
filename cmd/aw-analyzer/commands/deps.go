package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
	"github.com/posaune0423/aw-analyzer/internal/chat"
	"github.com/posaune0423/aw-analyzer/internal/clock"
	"github.com/posaune0423/aw-analyzer/internal/config"
	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	"github.com/posaune0423/aw-analyzer/internal/job"
	"github.com/posaune0423/aw-analyzer/internal/notify"
	"github.com/posaune0423/aw-analyzer/internal/state"
	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

// deps is the full dependency graph wired once per process invocation.
// Verb handlers take what they need from it and discard the rest.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	clock    clock.Clock
	state    *state.Store
	provider *activity.Provider
	analyzer *analyzer.Analyzer
	notifier notify.Notifier
	webhook  *chat.Webhook
	uploader *chat.Uploader
	offset   time.Duration
}

// buildDeps constructs every component from cfg, named httpclient.Client
// instances for each outbound dependency (activity server, LLM, chat),
// mirroring the teacher's one-graph-per-process-lifetime wiring.
func buildDeps(cfg *config.Config, log *logger.Logger) (*deps, error) {
	statePath := cfg.StatePath
	if statePath == "" {
		defaultPath, err := state.DefaultPath()
		if err != nil {
			return nil, err
		}
		statePath = defaultPath
	}

	st, err := state.Open(statePath)
	if err != nil {
		return nil, err
	}

	providerClient := httpclient.New("activity-provider")
	provider := activity.New(cfg.ServerURL, providerClient)

	analyzerClient := httpclient.New("analyzer", httpclient.WithRateLimit(1, 2))
	az := analyzer.New(analyzer.Config{APIKey: cfg.AIAPIKey, BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"}, analyzerClient)

	var webhook *chat.Webhook
	if cfg.ChatWebhookURL != "" {
		webhook = chat.NewWebhook(cfg.ChatWebhookURL, httpclient.New("chat-webhook", httpclient.WithRateLimit(1, 2)))
	}

	var uploader *chat.Uploader
	if cfg.ChatBotToken != "" {
		uploader = chat.NewUploader(cfg.ChatBotToken, cfg.ChatChannelID, httpclient.New("chat-uploader", httpclient.WithRateLimit(1, 2), httpclient.WithTimeout(60*time.Second)))
	}

	return &deps{
		cfg:      cfg,
		log:      log,
		clock:    clock.Real{},
		state:    st,
		provider: provider,
		analyzer: az,
		notifier: notify.New(),
		webhook:  webhook,
		uploader: uploader,
		offset:   time.Duration(cfg.TimezoneOffsetMins) * time.Minute,
	}, nil
}

// jobContext builds the per-tick job.Context, capturing the clock
// exactly once per invocation so every job in the tick sees the same Now.
func (d *deps) jobContext(ctx context.Context) *job.Context {
	return &job.Context{
		Ctx:       ctx,
		Now:       d.clock.Now(),
		State:     d.state,
		Notifier:  d.notifier,
		Provider:  d.provider,
		Analyzer:  d.analyzer,
		Offset:    d.offset,
		ServerURL: d.cfg.ServerURL,
		Hostname:  d.cfg.Hostname,
		Log:       d.log,
	}
}

// defaultJobsPath returns $HOME/.aw-analyzer/jobs.hcl, the optional
// user-configured job list. Its absence is not an error, buildJobs
// falls back to the three built-in reference jobs.
func defaultJobsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aw-analyzer", "jobs.hcl"), nil
}

// buildJobs loads jobs.hcl when present, otherwise returns the three
// built-in reference jobs.
func buildJobs(d *deps) ([]job.Job, error) {
	path, err := defaultJobsPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			jobs, loadErr := job.LoadJobsHCL(path)
			if loadErr != nil {
				return nil, loadErr
			}
			d.log.WithFields(map[string]interface{}{"path": path, "count": len(jobs)}).Info("loaded job list from jobs.hcl")
			return jobs, nil
		}
	}

	return []job.Job{
		job.NewDailySummary(9, 0),
		job.NewContinuousWorkAlert(2*60*60, int64(60*time.Minute/time.Millisecond)),
		job.NewDailyReport(20, 0, d.webhook),
	}, nil
}
