package crawler

// Request describes one batch invocation of the crawler.
type Request struct {
	// Domains are raw user-supplied entries ("acme.com", "https://acme.com/").
	Domains []string `json:"domains"`

	// StrictDomainMatch controls the ranking policy when no extracted email
	// belongs to the crawled organization's domain: true returns no contacts
	// rather than lower-confidence ones. Defaults to true at the API layer.
	StrictDomainMatch bool `json:"strictDomainMatch"`

	// IncludeLinkedIn is a reserved extension point for LinkedIn enrichment.
	// It is currently a no-op and contributes nothing to the candidate pool.
	IncludeLinkedIn bool `json:"includeLinkedIn"`
}

// Contact is one extracted email together with the page it was found on.
// Note is set on diagnostic placeholder entries (timeout, not_found, ...)
// so downstream consumers can distinguish failure modes.
type Contact struct {
	Email  string `json:"email"`
	Source string `json:"source"`
	Note   string `json:"note,omitempty"`
}

// Result is the outcome for a single input domain. Domain holds the final
// origin after redirects; CompanyName is the homepage <title> when available.
type Result struct {
	Domain      string    `json:"domain"`
	CompanyName string    `json:"companyName,omitempty"`
	Contacts    []Contact `json:"contacts"`
}
