package crawler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

// strictEmailRe is the shape an email must have to survive ranking. It is
// deliberately stricter than the extraction regex.
var strictEmailRe = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// placeholderRes reject addresses that are never real contacts: docs
// placeholders, automated mailboxes and loopback/internal domains.
var placeholderRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)example\.(com|org|net)`),
	regexp.MustCompile(`(?i)test\.(com|org|net)`),
	regexp.MustCompile(`(?i)noreply`),
	regexp.MustCompile(`(?i)no-reply`),
	regexp.MustCompile(`(?i)donotreply`),
	regexp.MustCompile(`(?i)@localhost`),
	regexp.MustCompile(`(?i)\.local$`),
}

// thirdPartyDomains are well-known SaaS/platform/social/analytics domains.
// Addresses there are artifacts of embedded widgets and vendor snippets,
// not organization contacts; subdomains are excluded too.
var thirdPartyDomains = []string{
	"google.com",
	"gmail.com",
	"microsoft.com",
	"msft.com",
	"outlook.com",
	"hotmail.com",
	"yahoo.com",
	"paddle.com",
	"stripe.com",
	"paypal.com",
	"hcaptcha.com",
	"recaptcha.com",
	"wordpress.org",
	"wordpress.com",
	"vgwort.de",
	"facebook.com",
	"twitter.com",
	"linkedin.com",
	"instagram.com",
	"youtube.com",
	"github.com",
	"npmjs.com",
	"cloudflare.com",
	"amazonaws.com",
	"sentry.io",
	"analytics.google.com",
	"googletagmanager.com",
	"doubleclick.net",
	"adservice.google",
	"facebook.net",
	"pinterest.com",
	"tiktok.com",
	"snapchat.com",
	"mailchimp.com",
	"sendgrid.com",
	"mailgun.com",
	"postmarkapp.com",
	"mandrill.com",
	"zendesk.com",
	"intercom.com",
	"drift.com",
	"hubspot.com",
	"salesforce.com",
	"shopify.com",
	"woocommerce.com",
	"bigcommerce.com",
	"squarespace.com",
	"wix.com",
	"typeform.com",
	"formspree.io",
	"form.io",
	"jotform.com",
	"123formbuilder.com",
}

// mailSubdomains are subdomain labels companies commonly route mail through.
var mailSubdomains = []string{
	"mail", "email", "contact", "info", "hello", "hi", "support", "sales",
	"business", "partnership", "sponsor", "sponsorship", "partners",
	"press", "media", "marketing", "team", "hr", "careers", "jobs",
}

// businessPrefixes mark local parts that look like organization-level
// contact mailboxes rather than personal ones.
var businessPrefixes = []string{
	"contact", "info", "hello", "hi", "support", "sales",
	"business", "partnership", "sponsor",
}

// isValidEmailFormat checks syntactic shape and rejects placeholder
// patterns that extraction commonly picks up.
func isValidEmailFormat(email string) bool {
	if !strictEmailRe.MatchString(email) {
		return false
	}

	if _, err := emailaddress.Parse(email); err != nil {
		return false
	}

	for _, re := range placeholderRes {
		if re.MatchString(email) {
			return false
		}
	}

	return true
}

// looksTrashy rejects strings that match the email shape but are markup
// leakage: truncated unicode escapes (u003e...) and image filenames.
func looksTrashy(email string) bool {
	return strings.HasPrefix(email, "u0") ||
		strings.Contains(email, "@2x.") ||
		strings.Contains(email, ".png") ||
		strings.Contains(email, ".jpg") ||
		strings.Contains(email, ".svg") ||
		strings.Contains(email, "your@email.com")
}

func isThirdPartyEmail(email string) bool {
	domain := emailDomain(email)
	if domain == "" {
		return false
	}

	for _, third := range thirdPartyDomains {
		if domain == third || strings.HasSuffix(domain, "."+third) {
			return true
		}
	}

	return false
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// BrandToken returns the leading label of a host ("acme" from
// "www.acme.co.uk"), used as a weak secondary relevance signal.
func BrandToken(host string) string {
	host = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")

	return strings.Split(host, ".")[0]
}

func brandMatch(email, host string) bool {
	token := BrandToken(host)
	if len(token) < 4 {
		return false
	}

	return strings.Contains(emailDomain(email), token)
}

func isBusinessEmail(email string) bool {
	for _, prefix := range businessPrefixes {
		if strings.HasPrefix(email, prefix) {
			return true
		}
	}

	return false
}

// SameOrgDomain reports whether an email's domain belongs to the same
// organization as the crawled host: exact match, a common mail subdomain,
// any subdomain, or a multi-part-TLD variant (contact@mail.company.co.uk
// against company.co.uk). Pure and total: malformed input returns false.
func SameOrgDomain(email, host string) bool {
	if email == "" || host == "" {
		return false
	}

	cleanHost := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
	domain := emailDomain(email)

	if domain == "" || cleanHost == "" {
		return false
	}

	if domain == cleanHost {
		return true
	}

	for _, sub := range mailSubdomains {
		if domain == sub+"."+cleanHost {
			return true
		}
	}

	if strings.HasSuffix(domain, "."+cleanHost) {
		return true
	}

	// Multi-part TLDs: split the host into main domain and TLD suffix, then
	// accept an email domain carrying the same suffix whose labels include
	// the main domain, or that contains ".<main>." before the suffix.
	hostParts := strings.Split(cleanHost, ".")
	if len(hostParts) < 2 {
		return false
	}

	mainDomain := hostParts[0]
	tld := strings.Join(hostParts[1:], ".")

	emailParts := strings.Split(domain, ".")
	suffixLen := len(hostParts) - 1

	if len(emailParts) < 2 || len(emailParts) < suffixLen {
		return false
	}

	emailTLD := strings.Join(emailParts[len(emailParts)-suffixLen:], ".")
	if emailTLD != tld {
		return false
	}

	for _, part := range emailParts {
		if part == mainDomain {
			return true
		}
	}

	return strings.Contains(domain, "."+mainDomain+".")
}

func relevanceScore(email, host string) int {
	score := 0

	if SameOrgDomain(email, host) {
		score += 20
	}

	if brandMatch(email, host) {
		score += 5
	}

	if isBusinessEmail(email) {
		score += 2
	}

	return score
}

// RankAndFilter reduces raw candidates to the ordered contact list for one
// crawled host. Invalid shapes, placeholders, markup garbage and third-party
// service addresses are dropped first. When any survivor belongs to the
// organization's own domain, only those are returned, business mailboxes
// first and then alphabetically. When none do, strict mode returns nothing
// (precision over recall: a wrong sponsor contact is worse than a missing
// one) while non-strict mode returns all survivors by composite score.
// Output is deterministic for a given candidate set.
func RankAndFilter(emails []string, host string, strict bool) []string {
	var unique []string

	seen := make(map[string]bool)

	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}

		seen[e] = true

		if !isValidEmailFormat(e) || looksTrashy(e) || isThirdPartyEmail(e) {
			continue
		}

		unique = append(unique, e)
	}

	if len(unique) == 0 {
		return nil
	}

	var matches []string

	for _, e := range unique {
		if SameOrgDomain(e, host) {
			matches = append(matches, e)
		}
	}

	if len(matches) > 0 {
		sort.SliceStable(matches, func(i, j int) bool {
			a, b := matches[i], matches[j]

			aBusiness, bBusiness := isBusinessEmail(a), isBusinessEmail(b)
			if aBusiness != bBusiness {
				return aBusiness
			}

			return a < b
		})

		return matches
	}

	if strict {
		return nil
	}

	sort.SliceStable(unique, func(i, j int) bool {
		aScore, bScore := relevanceScore(unique[i], host), relevanceScore(unique[j], host)
		if aScore != bScore {
			return aScore > bScore
		}

		return unique[i] < unique[j]
	})

	return unique
}
