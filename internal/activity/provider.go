package activity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

const (
	windowBucketPrefix = "aw-watcher-window_"
	afkBucketPrefix    = "aw-watcher-afk_"
	vscodeBucketPrefix = "aw-watcher-vscode_"
	vimBucketPrefix    = "aw-watcher-vim_"
)

// Provider discovers buckets once per call, composes server-side
// queries, and decodes the responses into the fixed result types.
type Provider struct {
	baseURL string
	http    *httpclient.Client
}

// New builds a Provider pointed at the ActivityWatch-style server root
// (default http://localhost:5600).
func New(baseURL string, client *httpclient.Client) *Provider {
	return &Provider{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// bucketListResponse is the raw decode shape of GET /api/0/buckets/: a map whose
// keys are bucket IDs. Bucket metadata fields are not needed by callers.
type bucketListResponse map[string]interface{}

func (p *Provider) listBuckets(ctx context.Context) (bucketListResponse, error) {
	var out bucketListResponse
	status, err := p.http.GetJSON(ctx, p.baseURL+"/api/0/buckets/", nil, &out)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, awerrors.Connection(fmt.Sprintf("bucket list request returned status %d", status), nil)
	}
	return out, nil
}

func firstBucketWithPrefix(buckets bucketListResponse, prefix string) (string, bool) {
	// Deterministic selection: sort keys, take the first matching one, so
	// repeated calls against the same bucket set always pick the same ID.
	ids := make([]string, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			return id, true
		}
	}
	return "", false
}

// period encodes the half-open interval [startOfDay(r.Start),
// startOfDay(r.End)+1 day) as "YYYY-MM-DD/YYYY-MM-DD" with an exclusive
// end.
func period(r TimeRange) string {
	start := r.Start.Format("2006-01-02")
	end := r.End.AddDate(0, 0, 1).Format("2006-01-02")
	return fmt.Sprintf("%s/%s", start, end)
}

// rawEvent is the decode shape of one event returned by a query:
// {timestamp, duration, data: {...}}.
type rawEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Duration  float64                `json:"duration"`
	Data      map[string]interface{} `json:"data"`
}

type queryResponse [][]rawEvent

func (p *Provider) runQuery(ctx context.Context, statements []string, timeperiod string) ([]rawEvent, error) {
	body := map[string]interface{}{
		"query":       []string{strings.Join(statements, ";\n") + ";"},
		"timeperiods": []string{timeperiod},
	}
	raw, status, err := p.http.PostJSON(ctx, p.baseURL+"/api/0/query/", nil, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, awerrors.Query(fmt.Sprintf("query request failed: %s", string(raw)), status)
	}

	var resp queryResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return nil, awerrors.Parse("failed to decode query response", err)
	}
	if len(resp) == 0 {
		return nil, awerrors.Parse("query response had no timeperiod results", nil)
	}
	return resp[0], nil
}

// GetMetrics fetches DailyMetrics for the given window: window events
// intersected with AFK=not-afk, merged by app, sorted by duration desc.
// afkSeconds and nightWorkSeconds are always 0 here. Callers needing
// those must query AFK metrics or the hourly bins separately.
func (p *Provider) GetMetrics(ctx context.Context, r TimeRange) (*DailyMetrics, error) {
	buckets, err := p.listBuckets(ctx)
	if err != nil {
		return nil, err
	}
	windowBucket, ok := firstBucketWithPrefix(buckets, windowBucketPrefix)
	if !ok {
		return nil, awerrors.Connection("Required buckets not found", nil)
	}
	afkBucket, ok := firstBucketWithPrefix(buckets, afkBucketPrefix)
	if !ok {
		return nil, awerrors.Connection("Required buckets not found", nil)
	}

	statements := []string{
		fmt.Sprintf("window_events = query_bucket(%q)", windowBucket),
		fmt.Sprintf("afk_events = query_bucket(%q)", afkBucket),
		"not_afk_events = filter_keyvals(afk_events, \"status\", [\"not-afk\"])",
		"work_events = filter_period_intersect(window_events, not_afk_events)",
		"merged = merge_events_by_keys(work_events, [\"app\"])",
		"merged = sort_by_duration(merged)",
		"RETURN = merged",
	}

	events, err := p.runQuery(ctx, statements, period(r))
	if err != nil {
		return nil, err
	}

	return decodeDailyMetrics(events), nil
}

// decodeDailyMetrics folds the merged-by-app events into DailyMetrics.
// maxContinuousSeconds is an approximation: it is the longest single
// merged event, not a true measure of uninterrupted activity.
func decodeDailyMetrics(events []rawEvent) *DailyMetrics {
	perApp := map[string]float64{}
	var total, maxDuration float64

	for _, e := range events {
		total += e.Duration
		if e.Duration > maxDuration {
			maxDuration = e.Duration
		}
		app := unknownApp
		if v, ok := e.Data["app"].(string); ok && v != "" {
			app = v
		}
		perApp[app] += e.Duration
	}

	return &DailyMetrics{
		WorkSeconds:          total,
		AfkSeconds:           0,
		NightWorkSeconds:     0,
		MaxContinuousSeconds: maxDuration,
		TopApps:              topN(perApp, 5),
	}
}

func topN(byKey map[string]float64, n int) []AppSeconds {
	out := make([]AppSeconds, 0, len(byKey))
	for k, v := range byKey {
		out = append(out, AppSeconds{App: k, Seconds: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].App < out[j].App
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// GetAfkMetrics fetches {afkSeconds, notAfkSeconds}: AFK events filtered
// to status in {afk, not-afk}, merged by status, sorted by duration desc.
func (p *Provider) GetAfkMetrics(ctx context.Context, r TimeRange) (*AfkMetrics, error) {
	events, err := p.queryAfkEvents(ctx, r, true)
	if err != nil {
		return nil, err
	}

	m := &AfkMetrics{}
	for _, e := range events {
		status, _ := e.Data["status"].(string)
		switch AfkStatus(status) {
		case StatusAfk:
			m.AfkSeconds += e.Duration
		case StatusNotAfk:
			m.NotAfkSeconds += e.Duration
		}
	}
	return m, nil
}

// GetAfkEvents fetches the same filtered AFK events sorted by timestamp
// ascending, for use by the binner and sleep analyzer.
func (p *Provider) GetAfkEvents(ctx context.Context, r TimeRange) ([]AfkEvent, error) {
	events, err := p.queryAfkEvents(ctx, r, false)
	if err != nil {
		return nil, err
	}

	out := make([]AfkEvent, 0, len(events))
	for _, e := range events {
		status, _ := e.Data["status"].(string)
		s := AfkStatus(status)
		if s != StatusAfk && s != StatusNotAfk {
			s = StatusOther
		}
		out = append(out, AfkEvent{Timestamp: e.Timestamp, Duration: e.Duration, Status: s})
	}
	return out, nil
}

func (p *Provider) queryAfkEvents(ctx context.Context, r TimeRange, merged bool) ([]rawEvent, error) {
	buckets, err := p.listBuckets(ctx)
	if err != nil {
		return nil, err
	}
	afkBucket, ok := firstBucketWithPrefix(buckets, afkBucketPrefix)
	if !ok {
		return nil, awerrors.Connection("Required buckets not found", nil)
	}

	statements := []string{
		fmt.Sprintf("afk_events = query_bucket(%q)", afkBucket),
		"afk_events = filter_keyvals(afk_events, \"status\", [\"afk\", \"not-afk\"])",
	}
	if merged {
		statements = append(statements,
			"afk_events = merge_events_by_keys(afk_events, [\"status\"])",
			"afk_events = sort_by_duration(afk_events)",
		)
	} else {
		statements = append(statements, "afk_events = sort_by_timestamp(afk_events)")
	}
	statements = append(statements, "RETURN = afk_events")

	return p.runQuery(ctx, statements, period(r))
}

// GetEditorProjectMetrics fetches the project breakdown: editor events
// intersected with AFK=not-afk, merged by project, sorted by duration
// desc. A missing editor bucket is not an error, it returns an empty
// result.
func (p *Provider) GetEditorProjectMetrics(ctx context.Context, r TimeRange) (*EditorProjectMetrics, error) {
	buckets, err := p.listBuckets(ctx)
	if err != nil {
		return nil, err
	}

	editorBucket, ok := firstBucketWithPrefix(buckets, vscodeBucketPrefix)
	if !ok {
		editorBucket, ok = firstBucketWithPrefix(buckets, vimBucketPrefix)
	}
	if !ok {
		return &EditorProjectMetrics{Projects: []ProjectSeconds{}}, nil
	}

	afkBucket, ok := firstBucketWithPrefix(buckets, afkBucketPrefix)
	if !ok {
		return nil, awerrors.Connection("Required buckets not found", nil)
	}

	statements := []string{
		fmt.Sprintf("editor_events = query_bucket(%q)", editorBucket),
		fmt.Sprintf("afk_events = query_bucket(%q)", afkBucket),
		"not_afk_events = filter_keyvals(afk_events, \"status\", [\"not-afk\"])",
		"editor_events = filter_period_intersect(editor_events, not_afk_events)",
		"merged = merge_events_by_keys(editor_events, [\"project\"])",
		"merged = sort_by_duration(merged)",
		"RETURN = merged",
	}

	events, err := p.runQuery(ctx, statements, period(r))
	if err != nil {
		return nil, err
	}

	perProject := map[string]float64{}
	for _, e := range events {
		raw, _ := e.Data["project"].(string)
		name := lastPathSegment(raw)
		if name == "" {
			name = unknownApp
		}
		perProject[name] += e.Duration
	}

	apps := topN(perProject, len(perProject))
	projects := make([]ProjectSeconds, 0, len(apps))
	for _, a := range apps {
		projects = append(projects, ProjectSeconds{Project: a.App, Seconds: a.Seconds})
	}
	return &EditorProjectMetrics{Projects: projects}, nil
}

// lastPathSegment extracts a project name from a path-like identifier by
// taking its last path segment, tolerating both / and \ separators.
func lastPathSegment(path string) string {
	path = strings.TrimRight(path, "/\\")
	if path == "" {
		return ""
	}
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
