package job

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	"github.com/posaune0423/aw-analyzer/internal/state"
	"go.uber.org/zap/zaptest"

	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

// fakeProviderServer stands up the two endpoints Provider.GetMetrics
// needs: a bucket listing and a query endpoint that always returns
// workSeconds/maxContinuous fixed by the caller.
func fakeProviderServer(t *testing.T, workSeconds, maxContinuous float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/0/buckets/":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"aw-watcher-window_test": map[string]interface{}{},
				"aw-watcher-afk_test":    map[string]interface{}{},
			})
		case "/api/0/query/":
			events := []map[string]interface{}{
				{"timestamp": time.Now().UTC().Format(time.RFC3339), "duration": maxContinuous, "data": map[string]interface{}{"app": "VS Code"}},
			}
			if workSeconds > maxContinuous {
				events = append(events, map[string]interface{}{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
					"duration":  workSeconds - maxContinuous,
					"data":      map[string]interface{}{"app": "Chrome"},
				})
			}
			_ = json.NewEncoder(w).Encode([][]map[string]interface{}{events})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestContext(t *testing.T, srv *httptest.Server, offset time.Duration, now time.Time) *Context {
	t.Helper()
	dir := t.TempDir()
	st, err := state.Open(dir + "/state.json")
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}

	provider := activity.New(srv.URL, httpclient.New("job-test"))
	log := logger.NewLogger(zaptest.NewLogger(t))

	return &Context{
		Ctx:      context.Background(),
		Now:      now,
		State:    st,
		Notifier: nil,
		Provider: provider,
		Analyzer: nil,
		Offset:   offset,
		Log:      log,
	}
}
