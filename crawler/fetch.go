package crawler

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	defaultHomepageTimeout = 15 * time.Second
	defaultSubpageTimeout  = 10 * time.Second
	defaultSubpageDelay    = 300 * time.Millisecond

	maxRedirects     = 10
	maxResponseBytes = 5 * 1024 * 1024 // 5MB

	// A realistic browser signature; many sites reject requests carrying a
	// default HTTP client User-Agent or missing Accept headers.
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// Diagnostic notes describing why a page produced no content. Every fetch
// resolves to one of these; a fetch never raises past its own scope.
const (
	NoteOK           = "ok"
	NoteRedirected   = "redirected"
	NoteBadRequest   = "bad_request"
	NoteUnauthorized = "unauthorized"
	NoteForbidden    = "forbidden"
	NoteNotFound     = "not_found"
	NoteTimeout      = "timeout"
	NoteConflict     = "conflict"
	NoteGone         = "gone"
	NoteBlocked      = "blocked"
	NoteRateLimited  = "rate_limited"
	NoteClientError  = "client_error"
	NoteServerError  = "server_error"
	NoteUnreachable  = "unreachable"
	NoteUnknownError = "unknown_error"
)

// pageResult is the outcome of one HTTP attempt. finalURL reflects where the
// content actually lives after redirects; host heuristics must use it rather
// than the requested URL.
type pageResult struct {
	requestedURL string
	finalURL     string
	statusCode   int
	body         string
	note         string
}

func (p pageResult) ok() bool {
	return p.note == NoteOK
}

// errTooManyRedirects marks a fetch stopped by the redirect cap; it surfaces
// from client.Do wrapped in a *url.Error.
var errTooManyRedirects = errors.New("too many redirects")

type fetcher struct {
	client *http.Client
}

func newFetcher() *fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &fetcher{
		client: &http.Client{
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errTooManyRedirects
				}

				return nil
			},
			Transport: transport,
		},
	}
}

// fetch performs a single GET with browser-like headers and a hard timeout.
// Each attempt is final: no retries. The Referer is set to the crawled
// origin as a compatibility measure, since many sites reject requests
// without one.
func (f *fetcher) fetch(ctx context.Context, pageURL, origin string, timeout time.Duration) pageResult {
	res := pageResult{
		requestedURL: pageURL,
		finalURL:     pageURL,
		note:         NoteUnreachable,
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return res
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Referer", origin+"/")

	resp, err := f.client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, errTooManyRedirects):
			res.note = NoteRedirected
		case isTimeout(err):
			res.note = NoteTimeout
		}

		return res
	}
	defer resp.Body.Close()

	res.statusCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		res.finalURL = resp.Request.URL.String()
	}

	res.note = statusNote(resp.StatusCode)
	if !res.ok() {
		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			res.note = NoteTimeout
		} else {
			res.note = NoteUnreachable
		}

		return res
	}

	res.body = string(body)

	return res
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusNote maps an HTTP status to a coarse human-readable note.
func statusNote(status int) string {
	switch {
	case status >= 200 && status < 300:
		return NoteOK
	case status == http.StatusMovedPermanently || status == http.StatusFound ||
		status == http.StatusTemporaryRedirect || status == http.StatusPermanentRedirect:
		return NoteRedirected
	case status == http.StatusBadRequest:
		return NoteBadRequest
	case status == http.StatusUnauthorized:
		return NoteUnauthorized
	case status == http.StatusForbidden:
		return NoteForbidden
	case status == http.StatusNotFound:
		return NoteNotFound
	case status == http.StatusRequestTimeout:
		return NoteTimeout
	case status == http.StatusConflict:
		return NoteConflict
	case status == http.StatusGone:
		return NoteGone
	case status == http.StatusTeapot:
		return NoteBlocked
	case status == http.StatusTooManyRequests:
		return NoteRateLimited
	case status >= 400 && status < 500:
		return NoteClientError
	case status >= 500:
		return NoteServerError
	default:
		return NoteUnknownError
	}
}
