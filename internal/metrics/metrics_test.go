package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/metrics"
	"github/chapool/go-docsign/internal/signing/store"
)

func TestMetrics(t *testing.T) {
	svc, err := metrics.New(config.DefaultServiceConfigFromEnv(), nil)
	require.NoError(t, err)

	svc.ObserveStatus(store.StatusPending)
	svc.ObserveStatus(store.StatusPending)
	svc.ObserveStatus(store.StatusSigned)
	svc.ObserveBackendRequest("SignDocument", "2xx", 20*time.Millisecond)
	svc.ObserveExpiryRun()
	svc.ObserveRateLimited("/api/v1/signing/sessions")

	families, err := svc.Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}

	assert.True(t, names["docsign_sessions_status_total"])
	assert.True(t, names["docsign_backend_request_duration_seconds"])
	assert.True(t, names["docsign_sessions_expiry_runs_total"])
	assert.True(t, names["docsign_http_rate_limited_total"])
	assert.True(t, names["go_goroutines"])

	count, err := testutil.GatherAndCount(svc.Registry, "docsign_sessions_status_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
