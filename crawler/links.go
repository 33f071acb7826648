package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxContactPages caps how many discovered subpages are fetched per domain.
const maxContactPages = 12

// hintPaths are path tokens that mark a link as a likely contact page.
// They are also synthesized directly under the origin, because many sites
// have a contact page that is not linked from the homepage.
var hintPaths = []string{
	"contact",
	"contacts",
	"contact-us",
	"contactus",
	"pages/contact-us",
	"pages/contact",
	"pages/support",
	"pages/customer-service",
	"get-in-touch",
	"getintouch",
	"reach-out",
	"reachout",
	"connect",
	"connect-with-us",
	"about",
	"about-us",
	"aboutus",
	"team",
	"leadership",
	"management",
	"people",
	"staff",
	"impressum",
	"legal",
	"privacy",
	"sponsor",
	"sponsorship",
	"sponsors",
	"partners",
	"partnership",
	"partnerships",
	"support",
	"help",
	"press",
	"media",
	"press-kit",
	"newsroom",
	"careers",
	"jobs",
	"join-us",
	"joinus",
	"careers/contact",
}

// DiscoverLinks returns the deduplicated, order-stable list of candidate
// contact-page URLs for one origin: first the same-host anchors on the page
// whose path contains a hint token, then a synthesized origin/<hint> URL for
// every hint. The caller is responsible for capping how many get fetched.
func DiscoverLinks(origin, html string) []string {
	base, err := url.Parse(origin)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)

	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if docErr == nil {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href := strings.TrimSpace(s.AttrOr("href", ""))
			if href == "" || strings.HasPrefix(href, "#") {
				return
			}

			lower := strings.ToLower(href)
			if strings.HasPrefix(lower, "mailto:") ||
				strings.HasPrefix(lower, "tel:") ||
				strings.HasPrefix(lower, "javascript:") {
				return
			}

			parsed, err := url.Parse(href)
			if err != nil {
				return
			}

			resolved := base.ResolveReference(parsed)

			// Only same host.
			if resolved.Host != base.Host {
				return
			}

			lowerPath := strings.ToLower(resolved.Path)
			for _, hint := range hintPaths {
				if strings.Contains(lowerPath, hint) {
					resolved.Fragment = ""
					add(resolved.String())

					return
				}
			}
		})
	}

	for _, hint := range hintPaths {
		add(origin + "/" + hint)
	}

	return links
}
