package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistration(t *testing.T) {
	// promauto registers on the default registerer at package init; a
	// duplicate metric name would have panicked before this test ran.
	collectors := []prometheus.Collector{
		ReactionEventsTotal,
		RoleMutationsTotal,
		RateLimitDenialsTotal,
		RateLimitNotificationsTotal,
		RateLimitBuckets,
		BootstrapEmbedsCreatedTotal,
		BootstrapReactionsAddedTotal,
	}
	for _, c := range collectors {
		assert.NotNil(t, c)
	}
}

func TestReactionEventsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(ReactionEventsTotal.WithLabelValues("grant", "ok"))
	ReactionEventsTotal.WithLabelValues("grant", "ok").Inc()
	after := testutil.ToFloat64(ReactionEventsTotal.WithLabelValues("grant", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRateLimitBuckets_Gauge(t *testing.T) {
	RateLimitBuckets.Set(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(RateLimitBuckets))
}
