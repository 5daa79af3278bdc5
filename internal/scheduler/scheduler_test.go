package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	"github.com/posaune0423/aw-analyzer/internal/job"
	"github.com/posaune0423/aw-analyzer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

// fakeJob is a minimal job.Job for exercising the scheduler in
// isolation from any real provider/analyzer.
type fakeJob struct {
	id        string
	shouldRun bool
	shouldErr error
	runResult job.Result
	runErr    error
	runCalls  int
}

func (f *fakeJob) ID() string { return f.id }

func (f *fakeJob) ShouldRun(jc *job.Context) (bool, error) {
	if f.shouldErr != nil {
		return false, f.shouldErr
	}
	return f.shouldRun, nil
}

func (f *fakeJob) Run(jc *job.Context) (job.Result, error) {
	f.runCalls++
	if f.runErr != nil {
		return job.Result{}, f.runErr
	}
	return f.runResult, nil
}

// fakeNotifier counts calls and can be made to fail.
type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, title, body string) error {
	f.calls++
	return f.err
}

func newSchedulerTestContext(t *testing.T, notifier *fakeNotifier, now time.Time) *job.Context {
	t.Helper()
	st, err := state.Open(t.TempDir() + "/state.json")
	require.NoError(t, err)

	return &job.Context{
		Ctx:      context.Background(),
		Now:      now,
		State:    st,
		Notifier: notifier,
		Log:      logger.NewLogger(zaptest.NewLogger(t)),
	}
}

func TestRunTickCooldownSkip(t *testing.T) {
	notifier := &fakeNotifier{}
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	jc := newSchedulerTestContext(t, notifier, now)

	require.NoError(t, jc.State.SetTime(state.CooldownKey("job"), now.Add(-5*time.Minute).UnixMilli()))

	j := &fakeJob{id: "job", shouldRun: true, runResult: job.NotifyWithCooldown("t", "b", state.CooldownKey("job"), int64(60*time.Minute/time.Millisecond))}
	result, err := RunTick(jc, []job.Job{j})
	require.NoError(t, err)

	assert.Equal(t, 0, notifier.calls)
	assert.Equal(t, []string{"job"}, result.Executed)
	assert.Empty(t, result.Notified)

	ts, ok := jc.State.GetTime(state.CooldownKey("job"))
	require.True(t, ok)
	assert.Equal(t, now.Add(-5*time.Minute).UnixMilli(), ts)
}

func TestRunTickCooldownAllow(t *testing.T) {
	notifier := &fakeNotifier{}
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	jc := newSchedulerTestContext(t, notifier, now)

	require.NoError(t, jc.State.SetTime(state.CooldownKey("job"), now.Add(-2*time.Hour).UnixMilli()))

	j := &fakeJob{id: "job", shouldRun: true, runResult: job.NotifyWithCooldown("t", "b", state.CooldownKey("job"), int64(60*time.Minute/time.Millisecond))}
	result, err := RunTick(jc, []job.Job{j})
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"job"}, result.Notified)

	ts, ok := jc.State.GetTime(state.CooldownKey("job"))
	require.True(t, ok)
	assert.Equal(t, now.UnixMilli(), ts)
}

func TestRunTickCooldownExactlyAtBoundaryIsAllowed(t *testing.T) {
	notifier := &fakeNotifier{}
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	jc := newSchedulerTestContext(t, notifier, now)

	cooldownMs := int64(60 * time.Minute / time.Millisecond)
	require.NoError(t, jc.State.SetTime(state.CooldownKey("job"), now.Add(-time.Duration(cooldownMs)*time.Millisecond).UnixMilli()))

	j := &fakeJob{id: "job", shouldRun: true, runResult: job.NotifyWithCooldown("t", "b", state.CooldownKey("job"), cooldownMs)}
	result, err := RunTick(jc, []job.Job{j})
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"job"}, result.Notified)
}

func TestRunTickShouldRunFailureSkipsAndContinues(t *testing.T) {
	notifier := &fakeNotifier{}
	jc := newSchedulerTestContext(t, notifier, time.Now())

	failing := &fakeJob{id: "a", shouldErr: assertError("boom")}
	ok := &fakeJob{id: "b", shouldRun: true, runResult: job.NoNotify("nothing to do")}

	result, err := RunTick(jc, []job.Job{failing, ok})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Skipped)
	assert.Equal(t, []string{"b"}, result.Executed)
}

func TestRunTickRunFailureAbortsTick(t *testing.T) {
	notifier := &fakeNotifier{}
	jc := newSchedulerTestContext(t, notifier, time.Now())

	failing := &fakeJob{id: "a", shouldRun: true, runErr: assertError("provider down")}
	never := &fakeJob{id: "b", shouldRun: true, runResult: job.Notify("t", "b")}

	result, err := RunTick(jc, []job.Job{failing, never})
	require.Error(t, err)
	var schedErr *Error
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, "a", schedErr.JobID)
	assert.Equal(t, "run", schedErr.Stage)
	assert.Empty(t, result.Executed)
	assert.Equal(t, 0, never.runCalls)
}

func TestRunTickNotifierFailureAbortsTick(t *testing.T) {
	notifier := &fakeNotifier{err: assertError("toast failed")}
	jc := newSchedulerTestContext(t, notifier, time.Now())

	j := &fakeJob{id: "a", shouldRun: true, runResult: job.Notify("t", "b")}
	never := &fakeJob{id: "b", shouldRun: true, runResult: job.Notify("t", "b")}

	result, err := RunTick(jc, []job.Job{j, never})
	require.Error(t, err)
	var schedErr *Error
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, "notify", schedErr.Stage)
	assert.Equal(t, []string{"a"}, result.Executed)
	assert.Equal(t, 0, never.runCalls)
}

func TestRunTickDailyMarkerScenario(t *testing.T) {
	notifier := &fakeNotifier{}
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	jc := newSchedulerTestContext(t, notifier, now)

	j := job.NewDailySummary(9, 0)
	provSrv := fakeMetricsServer(t)
	defer provSrv.Close()
	jc.Provider = provSrv.provider

	result, err := RunTick(jc, []job.Job{j})
	require.NoError(t, err)
	assert.Equal(t, []string{"daily-summary"}, result.Notified)

	marker, ok := jc.State.GetString(state.DailyMarkerKey("daily-summary", "2026-01-02"))
	require.True(t, ok)
	assert.Equal(t, "2026-01-02", marker)

	// Repeating the tick with the same now yields no new notification.
	notifier.calls = 0
	result, err = RunTick(jc, []job.Job{j})
	require.NoError(t, err)
	assert.Empty(t, result.Notified)
	assert.Equal(t, []string{"daily-summary"}, result.Skipped)
	assert.Equal(t, 0, notifier.calls)
}

func TestRunTickPreservesJobOrderAcrossSkipsAndExecutions(t *testing.T) {
	notifier := &fakeNotifier{}
	jc := newSchedulerTestContext(t, notifier, time.Now())

	a := &fakeJob{id: "a", shouldRun: false}
	b := &fakeJob{id: "b", shouldRun: true, runResult: job.NoNotify("nothing")}
	c := &fakeJob{id: "c", shouldRun: true, runResult: job.Notify("t", "b")}

	result, err := RunTick(jc, []job.Job{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Skipped)
	assert.Equal(t, []string{"b", "c"}, result.Executed)
	assert.Equal(t, []string{"c"}, result.Notified)
}

type fakeMetricsProvider struct {
	*httptest.Server
	provider *activity.Provider
}

// fakeMetricsServer backs a real activity.Provider with an httptest
// server returning a fixed, empty-ish metrics window, enough for
// daily-summary's run() to succeed without asserting on its numbers.
func fakeMetricsServer(t *testing.T) *fakeMetricsProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/0/buckets/":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"aw-watcher-window_test": map[string]interface{}{},
				"aw-watcher-afk_test":    map[string]interface{}{},
			})
		case "/api/0/query/":
			events := []map[string]interface{}{
				{"timestamp": "2026-01-01T12:00:00Z", "duration": 3600.0, "data": map[string]interface{}{"app": "VS Code"}},
			}
			_ = json.NewEncoder(w).Encode([][]map[string]interface{}{events})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return &fakeMetricsProvider{Server: srv, provider: activity.New(srv.URL, httpclient.New("scheduler-test"))}
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertError(msg string) error { return simpleError(msg) }
