// Package crawler implements the web contact-extraction core: given company
// domains, it fetches each site's homepage and likely contact subpages,
// extracts candidate email addresses from raw and obfuscated HTML, filters
// out noise and ranks the survivors by relevance to the crawled
// organization's domain. One Crawl call is a stateless batch: nothing is
// cached or persisted across invocations.
package crawler

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sponsorscope/contact-scraper/monitoring"
)

const defaultConcurrency = 3

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Crawler drives the per-domain extraction pipeline with bounded
// concurrency across domains. The zero value is not usable; use New.
type Crawler struct {
	fetcher *fetcher
	logger  *zap.Logger
	metrics *monitoring.Metrics

	concurrency     int
	maxContactPages int
	homepageTimeout time.Duration
	subpageTimeout  time.Duration
	subpageDelay    time.Duration
}

type Option func(*Crawler)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Crawler) {
		c.metrics = m
	}
}

// WithConcurrency sets the maximum number of domains crawled in parallel.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxContactPages caps how many discovered subpages are fetched per
// domain.
func WithMaxContactPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxContactPages = n
		}
	}
}

// WithTimeouts overrides the homepage and subpage fetch deadlines.
func WithTimeouts(homepage, subpage time.Duration) Option {
	return func(c *Crawler) {
		if homepage > 0 {
			c.homepageTimeout = homepage
		}

		if subpage > 0 {
			c.subpageTimeout = subpage
		}
	}
}

// WithSubpageDelay sets the polite pause between subpage fetches of one
// domain.
func WithSubpageDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d >= 0 {
			c.subpageDelay = d
		}
	}
}

func New(opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:         newFetcher(),
		logger:          zap.NewNop(),
		concurrency:     defaultConcurrency,
		maxContactPages: maxContactPages,
		homepageTimeout: defaultHomepageTimeout,
		subpageTimeout:  defaultSubpageTimeout,
		subpageDelay:    defaultSubpageDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Crawl processes every domain in the request and returns exactly one
// Result per input entry, in input order. Failures are isolated at the
// per-domain boundary: a domain that times out, refuses connections or
// serves malformed HTML yields a diagnostic result and never affects its
// siblings or the batch.
func (c *Crawler) Crawl(ctx context.Context, req Request) []Result {
	results := make([]Result, len(req.Domains))

	workers := c.concurrency
	if len(req.Domains) < workers {
		workers = len(req.Domains)
	}

	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, raw := range req.Domains {
		i, raw := i, raw
		g.Go(func() error {
			results[i] = c.crawlDomain(gctx, raw, req.StrictDomainMatch)

			if c.metrics != nil {
				c.metrics.IncDomainsCrawled()
			}

			// Errors never propagate to the group; each is already data.
			return nil
		})
	}

	_ = g.Wait()

	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveBatchDuration(elapsed)
	}

	c.logger.Info("batch complete",
		zap.Int("domains", len(req.Domains)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", elapsed),
	)

	return results
}

// crawlDomain runs the full pipeline for one domain: normalize, fetch the
// homepage, extract, discover and fetch subpages, pool, rank, and re-attach
// the first-seen source URL to each surviving email.
func (c *Crawler) crawlDomain(ctx context.Context, raw string, strict bool) Result {
	origin, err := NormalizeOrigin(raw)
	if err != nil {
		c.logger.Warn("invalid domain entry", zap.String("domain", raw), zap.Error(err))

		if c.metrics != nil {
			c.metrics.IncCrawlErrors("invalid_domain")
		}

		return Result{Domain: raw, Contacts: []Contact{}}
	}

	page := c.fetchPage(ctx, origin, origin, c.homepageTimeout)
	if !page.ok() {
		c.logger.Warn("homepage fetch failed",
			zap.String("origin", origin),
			zap.String("note", page.note),
			zap.Int("status", page.statusCode),
		)

		if c.metrics != nil {
			c.metrics.IncCrawlErrors(page.note)
		}

		return Result{
			Domain:   origin,
			Contacts: []Contact{{Email: "", Source: origin, Note: page.note}},
		}
	}

	// Brand/host heuristics must reflect where the content actually lives,
	// so everything below uses the origin after redirects.
	finalOrigin := origin
	host := ""

	if u, uerr := url.Parse(page.finalURL); uerr == nil && u.Host != "" {
		finalOrigin = u.Scheme + "://" + u.Host
		host = u.Hostname()
	}

	companyName := pageTitle(page.body)

	pool := poolContacts(ExtractEmails(page.body), finalOrigin)

	links := DiscoverLinks(finalOrigin, page.body)
	if len(links) > c.maxContactPages {
		links = links[:c.maxContactPages]
	}

	for _, link := range links {
		if ctx.Err() != nil {
			break
		}

		sub := c.fetchPage(ctx, link, finalOrigin, c.subpageTimeout)
		if !sub.ok() {
			// A failing subpage is skipped; siblings and the homepage
			// result are unaffected.
			continue
		}

		pool = append(pool, poolContacts(ExtractEmails(sub.body), link)...)

		select {
		case <-ctx.Done():
		case <-time.After(c.subpageDelay):
		}
	}

	candidates := make([]string, 0, len(pool))
	for _, p := range pool {
		candidates = append(candidates, p.Email)
	}

	ranked := RankAndFilter(candidates, host, strict)

	contacts := make([]Contact, 0, len(ranked))

	for _, email := range ranked {
		source := finalOrigin

		// First occurrence wins when the same address appears on several
		// pages.
		for _, p := range pool {
			if p.Email == email {
				source = p.Source

				break
			}
		}

		contacts = append(contacts, Contact{Email: email, Source: source})
	}

	if len(contacts) == 0 {
		// Crawled and nothing survived; distinct from a crawl failure.
		contacts = append(contacts, Contact{Email: "N/A", Source: finalOrigin})
	}

	c.logger.Info("domain crawled",
		zap.String("origin", finalOrigin),
		zap.Int("subpages", len(links)),
		zap.Int("candidates", len(pool)),
		zap.Int("contacts", len(ranked)),
	)

	return Result{Domain: finalOrigin, CompanyName: companyName, Contacts: contacts}
}

func (c *Crawler) fetchPage(ctx context.Context, pageURL, origin string, timeout time.Duration) pageResult {
	if c.metrics != nil {
		c.metrics.IncPagesFetched()
	}

	return c.fetcher.fetch(ctx, pageURL, origin, timeout)
}

// poolContacts pairs extracted emails with their source page. An empty page
// contributes an N/A entry so "reachable but empty" stays distinguishable
// from "never reached"; ranking filters these out of the final list.
func poolContacts(emails []string, source string) []Contact {
	if len(emails) == 0 {
		return []Contact{{Email: "N/A", Source: source}}
	}

	out := make([]Contact, 0, len(emails))
	for _, e := range emails {
		out = append(out, Contact{Email: e, Source: source})
	}

	return out
}

func pageTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}
