package job

import (
	"testing"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuousWorkAlertBelowThresholdDoesNotNotify(t *testing.T) {
	srv := fakeProviderServer(t, 3600, 1800)
	defer srv.Close()

	j := NewContinuousWorkAlert(7200, 3600_000)
	jc := newTestContext(t, srv, 0, time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC))

	result, err := j.Run(jc)
	require.NoError(t, err)
	assert.False(t, result.IsNotify())
}

func TestContinuousWorkAlertAboveThresholdNotifiesWithCooldown(t *testing.T) {
	srv := fakeProviderServer(t, 10800, 9000)
	defer srv.Close()

	j := NewContinuousWorkAlert(7200, 3600_000)
	jc := newTestContext(t, srv, 0, time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC))

	result, err := j.Run(jc)
	require.NoError(t, err)
	assert.True(t, result.IsNotify())
	assert.Equal(t, "cooldown:"+continuousWorkAlertID, result.CooldownKey)
	assert.Equal(t, int64(3600_000), result.CooldownMs)
}

func TestContinuousWorkAlertShouldRunIsAlwaysTrue(t *testing.T) {
	srv := fakeProviderServer(t, 0, 0)
	defer srv.Close()

	j := NewContinuousWorkAlert(7200, 3600_000)
	jc := newTestContext(t, srv, 0, time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC))

	ok, err := j.ShouldRun(jc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContinuousWorkAlertCooldownGatingIsSchedulerOwned(t *testing.T) {
	// ContinuousWorkAlert never consults the cooldown state itself; the
	// scheduler is the sole reader of state.CooldownKey.
	srv := fakeProviderServer(t, 10800, 9000)
	defer srv.Close()

	j := NewContinuousWorkAlert(7200, 3600_000)
	jc := newTestContext(t, srv, 0, time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC))

	require.NoError(t, jc.State.Set(state.CooldownKey(continuousWorkAlertID), time.Now().UnixMilli()))

	result, err := j.Run(jc)
	require.NoError(t, err)
	assert.True(t, result.IsNotify())
}
