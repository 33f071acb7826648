package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverLinks(t *testing.T) {
	origin := "https://acme.test"
	html := `<html><body>
		<a href="/contact-us">Contact</a>
		<a href="/about#team">About</a>
		<a href="https://other.test/contact">External contact</a>
		<a href="mailto:info@acme.test">Email</a>
		<a href="tel:+1234567890">Call</a>
		<a href="javascript:void(0)">Menu</a>
		<a href="/blog/some-post">Blog</a>
	</body></html>`

	links := DiscoverLinks(origin, html)

	// Anchors found on the page come first, in document order.
	require.Equal(t, "https://acme.test/contact-us", links[0])
	require.Equal(t, "https://acme.test/about", links[1])

	// Every hint is synthesized under the origin.
	require.Contains(t, links, "https://acme.test/sponsorship")
	require.Contains(t, links, "https://acme.test/impressum")

	// Cross-host and non-hint anchors are excluded.
	require.NotContains(t, links, "https://other.test/contact")
	require.NotContains(t, links, "https://acme.test/blog/some-post")

	// Both anchors overlap with synthesized hints, so no duplicates.
	require.Len(t, links, len(hintPaths))
}

func TestDiscoverLinksRelativeResolution(t *testing.T) {
	links := DiscoverLinks("https://acme.test", `<a href="pages/contact-us">Contact</a>`)

	require.Equal(t, "https://acme.test/pages/contact-us", links[0])
}

func TestDiscoverLinksQueryKept(t *testing.T) {
	links := DiscoverLinks("https://acme.test", `<a href="/contact?ref=footer">Contact</a>`)

	require.Equal(t, "https://acme.test/contact?ref=footer", links[0])
	require.Contains(t, links, "https://acme.test/contact")
}

func TestDiscoverLinksBadOrigin(t *testing.T) {
	require.Nil(t, DiscoverLinks("://bad", `<a href="/contact">Contact</a>`))
}

func TestDiscoverLinksNoAnchors(t *testing.T) {
	links := DiscoverLinks("https://acme.test", "<html><body></body></html>")

	require.Len(t, links, len(hintPaths))
	require.Equal(t, "https://acme.test/contact", links[0])
}
