package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCrawlerEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<html><head><title>Acme Widgets</title></head><body>
				<a href="mailto:info@acmewidgets.test">Email us</a>
				<a href="/contact-us">Contact</a>
			</body></html>`))
		case "/contact-us":
			_, _ = w.Write([]byte(`<html><body>
				<p>Our sponsorship team: sponsor@acmewidgets.test</p>
			</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(WithSubpageDelay(0))

	results := c.Crawl(context.Background(), Request{
		Domains: []string{srv.URL},
		// The test server host is an IP, so no candidate can domain-match.
		StrictDomainMatch: false,
	})

	require.Len(t, results, 1)

	res := results[0]

	require.Equal(t, srv.URL, res.Domain)
	require.Equal(t, "Acme Widgets", res.CompanyName)
	require.Equal(t, []Contact{
		{Email: "info@acmewidgets.test", Source: srv.URL},
		{Email: "sponsor@acmewidgets.test", Source: srv.URL + "/contact-us"},
	}, res.Contacts)
}

func TestCrawlerBatchIsolation(t *testing.T) {
	page := func(email string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)

				return
			}

			_, _ = w.Write([]byte(`<a href="mailto:` + email + `">Email</a>`))
		}
	}

	good1 := httptest.NewServer(page("info@biz1.test"))
	defer good1.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	good3 := httptest.NewServer(page("info@biz3.test"))
	defer good3.Close()

	c := New(
		WithConcurrency(3),
		WithMaxContactPages(1),
		WithTimeouts(100*time.Millisecond, 100*time.Millisecond),
		WithSubpageDelay(0),
	)

	results := c.Crawl(context.Background(), Request{
		Domains:           []string{good1.URL, slow.URL, good3.URL},
		StrictDomainMatch: false,
	})

	require.Len(t, results, 3)

	// Results hold input order, and the stalled domain affects only itself.
	require.Equal(t, good1.URL, results[0].Domain)
	require.Equal(t, []Contact{{Email: "info@biz1.test", Source: good1.URL}}, results[0].Contacts)

	require.Equal(t, slow.URL, results[1].Domain)
	require.Equal(t, []Contact{{Email: "", Source: slow.URL, Note: NoteTimeout}}, results[1].Contacts)

	require.Equal(t, good3.URL, results[2].Domain)
	require.Equal(t, []Contact{{Email: "info@biz3.test", Source: good3.URL}}, results[2].Contacts)
}

func TestCrawlerInvalidDomain(t *testing.T) {
	c := New()

	results := c.Crawl(context.Background(), Request{Domains: []string{"   "}})

	require.Len(t, results, 1)
	require.Equal(t, "   ", results[0].Domain)
	require.Empty(t, results[0].Contacts)
}

func TestCrawlerHomepageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := New(WithMaxContactPages(1), WithSubpageDelay(0))

	results := c.Crawl(context.Background(), Request{Domains: []string{srv.URL}})

	require.Len(t, results, 1)
	require.Equal(t, srv.URL, results[0].Domain)
	require.Equal(t, []Contact{{Email: "", Source: srv.URL, Note: NoteNotFound}}, results[0].Contacts)
}

func TestCrawlerNoEmailsFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(`<html><head><title>Empty Co</title></head><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	c := New(WithMaxContactPages(1), WithSubpageDelay(0))

	results := c.Crawl(context.Background(), Request{Domains: []string{srv.URL}, StrictDomainMatch: false})

	require.Len(t, results, 1)
	require.Equal(t, "Empty Co", results[0].CompanyName)
	require.Equal(t, []Contact{{Email: "N/A", Source: srv.URL}}, results[0].Contacts)
}

func TestCrawlerStrictModeDropsForeignDomains(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(`<a href="mailto:ceo@othercorp.com">Email</a>`))
	}))
	defer srv.Close()

	c := New(WithMaxContactPages(1), WithSubpageDelay(0))

	results := c.Crawl(context.Background(), Request{Domains: []string{srv.URL}, StrictDomainMatch: true})

	require.Len(t, results, 1)
	require.Equal(t, []Contact{{Email: "N/A", Source: srv.URL}}, results[0].Contacts)
}

func TestCrawlerEmptyBatch(t *testing.T) {
	c := New()

	results := c.Crawl(context.Background(), Request{})

	require.Empty(t, results)
}
