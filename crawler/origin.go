package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeOrigin turns a user-supplied domain entry into a canonical
// scheme://host origin. Entries without a scheme get https:// prepended;
// any path, query or fragment is discarded.
func NormalizeOrigin(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", fmt.Errorf("empty domain")
	}

	lower := strings.ToLower(d)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		d = "https://" + d
	}

	u, err := url.Parse(d)
	if err != nil {
		return "", fmt.Errorf("parsing domain %q: %w", raw, err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("domain %q has no host", raw)
	}

	return u.Scheme + "://" + u.Host, nil
}
