// Package monitoring exposes Prometheus metrics for the extraction crawler.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Construct it
// once per process; collectors register globally.
type Metrics struct {
	DomainsCrawledTotal prometheus.Counter
	PagesFetchedTotal   prometheus.Counter
	CrawlErrorsTotal    *prometheus.CounterVec
	BatchDuration       prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		DomainsCrawledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contact_scraper_domains_crawled_total",
			Help: "The total number of input domains processed",
		}),
		PagesFetchedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contact_scraper_pages_fetched_total",
			Help: "The total number of HTTP page fetches attempted",
		}),
		CrawlErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_scraper_crawl_errors_total",
			Help: "The total number of per-domain crawl failures",
		}, []string{"note"}), // e.g. 'timeout', 'unreachable', 'not_found'
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_scraper_batch_duration_seconds",
			Help:    "Wall-clock duration of one batch invocation",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}
}

func (m *Metrics) IncDomainsCrawled() {
	m.DomainsCrawledTotal.Inc()
}

func (m *Metrics) IncPagesFetched() {
	m.PagesFetchedTotal.Inc()
}

func (m *Metrics) IncCrawlErrors(note string) {
	m.CrawlErrorsTotal.WithLabelValues(note).Inc()
}

func (m *Metrics) ObserveBatchDuration(d time.Duration) {
	m.BatchDuration.Observe(d.Seconds())
}
