package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// Collectors register globally, so the whole package shares one instance.
	m := New()

	m.IncDomainsCrawled()
	m.IncDomainsCrawled()
	m.IncPagesFetched()
	m.IncCrawlErrors("timeout")
	m.IncCrawlErrors("timeout")
	m.IncCrawlErrors("not_found")
	m.ObserveBatchDuration(3 * time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.DomainsCrawledTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetchedTotal))
	require.Equal(t, 2.0, testutil.ToFloat64(m.CrawlErrorsTotal.WithLabelValues("timeout")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CrawlErrorsTotal.WithLabelValues("not_found")))
}
