package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJobsHCL = `
job "long-focus" {
  should_run   = "maxContinuousSeconds >= 7200.0"
  cooldown_ms  = 3600000
  notify_title = "Long focus streak"
  notify_body  = "Continuous work has crossed the threshold."
}

job "morning-check-in" {
  should_run   = "hour >= 9 && hour < 10"
  notify_title = "Morning check-in"
  notify_body  = "Good morning."
}
`

func writeFixtureJobsHCL(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.hcl")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJobsHCL), 0o644))
	return path
}

func TestLoadJobsHCLParsesBlocksAndCompilesRules(t *testing.T) {
	path := writeFixtureJobsHCL(t)

	jobs, err := LoadJobsHCL(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "long-focus", jobs[0].ID())
	assert.Equal(t, "morning-check-in", jobs[1].ID())
}

func TestLoadJobsHCLRejectsInvalidCELExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
job "broken" {
  should_run   = "this is not )("
  notify_title = "x"
  notify_body  = "y"
}
`), 0o644))

	_, err := LoadJobsHCL(path)
	assert.Error(t, err)
}

func TestLoadJobsHCLMissingFileIsAnError(t *testing.T) {
	_, err := LoadJobsHCL("/nonexistent/jobs.hcl")
	assert.Error(t, err)
}

func TestHCLJobShouldRunUsesCompiledRule(t *testing.T) {
	srv := fakeProviderServer(t, 10800, 9000)
	defer srv.Close()

	path := writeFixtureJobsHCL(t)
	jobs, err := LoadJobsHCL(path)
	require.NoError(t, err)

	jc := newTestContext(t, srv, 0, time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC))

	ok, err := jobs[0].ShouldRun(jc)
	require.NoError(t, err)
	assert.True(t, ok)

	result, err := jobs[0].Run(jc)
	require.NoError(t, err)
	assert.True(t, result.IsNotify())
	assert.Equal(t, "cooldown:long-focus", result.CooldownKey)
}
