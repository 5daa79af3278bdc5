package install

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRunsComputesSequentialTimes(t *testing.T) {
	from := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	runs, err := NextRuns("*/15 * * * *", from, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, time.Date(2026, 1, 2, 10, 15, 0, 0, time.UTC), runs[0])
	assert.Equal(t, time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC), runs[1])
}

func TestNextRunsRejectsInvalidExpression(t *testing.T) {
	_, err := NextRuns("not a cron expr", time.Now(), 1)
	assert.Error(t, err)
}

func TestRenderRedactsSecretEnvKeys(t *testing.T) {
	doc := Render(Descriptor{
		Label:          "com.example.aw-analyzer",
		ExecutablePath: "/usr/local/bin/aw-analyzer",
		Args:           []string{"tick"},
		IntervalSecs:   300,
		Env: map[string]string{
			"AW_AI_API_KEY": "sk-live-secret",
			"AW_SERVER_URL": "http://localhost:5600",
		},
		StdoutLogPath: "/tmp/aw-analyzer.out.log",
		StderrLogPath: "/tmp/aw-analyzer.err.log",
	})

	assert.Contains(t, doc, "com.example.aw-analyzer")
	assert.Contains(t, doc, "http://localhost:5600")
	assert.NotContains(t, doc, "sk-live-secret")
	assert.Contains(t, doc, "<string>***</string>")
}

func TestWriteThenRemoveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "com.example.aw-analyzer.plist")

	d := Descriptor{Label: "com.example.aw-analyzer", ExecutablePath: "/usr/local/bin/aw-analyzer", Args: []string{"tick"}, IntervalSecs: 300}
	require.NoError(t, Write(path, d))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "com.example.aw-analyzer")

	require.NoError(t, Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, Remove(filepath.Join(t.TempDir(), "missing.plist")))
}
