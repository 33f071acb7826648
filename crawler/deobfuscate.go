package crawler

import "regexp"

// Obfuscation tokens are replaced in a fixed order: the "at" variants must
// run before the "dot" variants so that an already-valid address is never
// corrupted half-way through.
var (
	atBracketRe  = regexp.MustCompile(`(?i)\s*[\[(]at[\])]\s*`)
	atWordRe     = regexp.MustCompile(`(?i)\s+at\s+`)
	dotBracketRe = regexp.MustCompile(`(?i)\s*[\[(]dot[\])]\s*`)
	dotWordRe    = regexp.MustCompile(`(?i)\s+dot\s+`)
	atEntityRe   = regexp.MustCompile(`(?i)&#64;|&commat;`)
	dotEntityRe  = regexp.MustCompile(`(?i)&#46;|&period;`)
	zeroWidthRe  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
)

// Deobfuscate normalizes common human obfuscation patterns ("[at]", "(dot)",
// HTML entities, zero-width characters) so the email regex can match the
// underlying address. It is a pure function and idempotent on clean text:
// it only rewrites explicit obfuscation tokens, never a bare "@" or ".".
func Deobfuscate(s string) string {
	s = atBracketRe.ReplaceAllString(s, "@")
	s = atWordRe.ReplaceAllString(s, "@")

	s = dotBracketRe.ReplaceAllString(s, ".")
	s = dotWordRe.ReplaceAllString(s, ".")

	s = atEntityRe.ReplaceAllString(s, "@")
	s = dotEntityRe.ReplaceAllString(s, ".")

	s = zeroWidthRe.ReplaceAllString(s, "")

	return s
}
