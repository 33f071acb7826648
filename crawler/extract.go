package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?`)
	emailExactRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?$`)

	mailtoRe      = regexp.MustCompile(`(?i)mailto:([^"' >?&]+)`)
	emailAttrRe   = regexp.MustCompile(`(?i)(?:data-)?(?:email|contact-email|support-email)=["']([^"']+)["']`)
	labeledTextRe = regexp.MustCompile(`(?i)(?:email|e-mail|contact|reach|write|send)[\s:]+(?:us|to)?[\s:]*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

	trailingPunctRe = regexp.MustCompile(`[.,;:!?)\]]+$`)

	scriptBlockRe   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptBlockRe = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	iframeBlockRe   = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	markupTagRe     = regexp.MustCompile(`<[^>]+>`)
)

// ExtractEmails returns the unique candidate email addresses found in raw
// HTML, lowercased and trimmed. Four strategies run in order and their
// results are unioned; none short-circuits, since each catches cases the
// others miss:
//
//  1. mailto: link targets (URL-decoded and deobfuscated)
//  2. structured attributes (data-email, contact-email, ...)
//  3. labeled text ("Email us: foo@bar.com")
//  4. free-text scan of the markup-stripped page, with script, style,
//     noscript and iframe blocks removed first
//
// Candidates are only shape-validated here. Relevance and noise filtering
// (third-party domains, placeholders) is the ranker's responsibility, so
// callers can still inspect everything a page exposed.
func ExtractEmails(html string) []string {
	var emails []string
	seen := make(map[string]bool)

	add := func(candidate string) {
		c := strings.ToLower(strings.TrimSpace(candidate))
		c = trailingPunctRe.ReplaceAllString(c, "")

		if c == "" || seen[c] || !emailExactRe.MatchString(c) {
			return
		}

		seen[c] = true
		emails = append(emails, c)
	}

	// Strategy 1: mailto targets. Scanned on the raw markup so that links
	// goquery cannot parse are still caught.
	for _, m := range mailtoRe.FindAllStringSubmatch(html, -1) {
		value := m[1]
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}

		add(Deobfuscate(value))
	}

	// Strategy 2: structured attributes.
	for _, m := range emailAttrRe.FindAllStringSubmatch(html, -1) {
		add(Deobfuscate(m[1]))
	}

	// Strategy 3: labeled text, catching "Email us: foo@bar.com" style
	// mentions that carry no markup at all.
	for _, m := range labeledTextRe.FindAllStringSubmatch(html, -1) {
		add(Deobfuscate(m[1]))
	}

	// Strategy 4: free-text scan. Script/style/noscript/iframe blocks are
	// the dominant source of false positives (vendor widget and analytics
	// addresses), so they are removed before matching.
	for _, m := range emailRe.FindAllString(Deobfuscate(visibleText(html)), -1) {
		add(m)
	}

	return emails
}

// visibleText strips the noisy embedded blocks and all remaining markup,
// leaving roughly what a reader of the page would see. goquery is preferred;
// a regex pass handles documents it cannot parse.
func visibleText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil {
		doc.Find("script, style, noscript, iframe").Remove()

		if text := joinTextNodes(doc.Selection.Nodes); strings.TrimSpace(text) != "" {
			return text
		}
	}

	for _, re := range []*regexp.Regexp{scriptBlockRe, styleBlockRe, noscriptBlockRe, iframeBlockRe} {
		raw = re.ReplaceAllString(raw, " ")
	}

	return markupTagRe.ReplaceAllString(raw, " ")
}

// joinTextNodes concatenates the document's text nodes with a separating
// space, so text in adjacent inline elements does not run together and
// swallow an address.
func joinTextNodes(nodes []*html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')

			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range nodes {
		walk(n)
	}

	return b.String()
}
