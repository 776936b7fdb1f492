package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"newsdesk/internal/apperr"
)

func TestObserveTransition(t *testing.T) {
	okBefore := testutil.ToFloat64(Transitions.WithLabelValues("publish", "ok"))
	deniedBefore := testutil.ToFloat64(Transitions.WithLabelValues("publish", "unauthorized"))

	ObserveTransition("publish", nil)
	ObserveTransition("publish", apperr.Unauthorized("publish article"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(Transitions.WithLabelValues("publish", "ok")))
	assert.Equal(t, deniedBefore+1, testutil.ToFloat64(Transitions.WithLabelValues("publish", "unauthorized")))
}

func TestHTTPCollectorsRegistered(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/health").Observe(0.01)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestsTotal), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}
