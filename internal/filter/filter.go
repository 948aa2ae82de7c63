package filter

import (
	"regexp"
	"strings"
)

// Matches one bracketed segment with no nested bracket inside, ASCII or
// full-width. Applied repeatedly so nested segments collapse from the
// inside out.
var bracketExpr = regexp.MustCompile(`\[[^\[\]]*\]|【[^【】]*】`)

// NormalizeTitle strips bracketed tags and a leading source-name prefix from
// a raw headline. The result is used both as the stored display title and as
// the dedupe key, so it must be deterministic.
func NormalizeTitle(raw, source string) string {
	title := raw
	for {
		next := bracketExpr.ReplaceAllString(title, "")
		if next == title {
			break
		}
		title = next
	}

	title = strings.TrimSpace(title)
	if source != "" {
		for _, sep := range []string{":", "："} {
			prefix := source + sep
			if strings.HasPrefix(title, prefix) {
				title = strings.TrimSpace(strings.TrimPrefix(title, prefix))
				break
			}
		}
	}

	return title
}

// Classifier admits a title when any include keyword matches and no exclude
// keyword matches. Matching is case-insensitive for ASCII and exact-substring
// otherwise.
type Classifier struct {
	includes []string
	excludes []string
}

// NewClassifier copies the keyword lists so later config mutation cannot
// change decisions mid-run.
func NewClassifier(includes, excludes []string) Classifier {
	return Classifier{
		includes: append([]string(nil), includes...),
		excludes: append([]string(nil), excludes...),
	}
}

// Admit reports whether the normalized title qualifies for ingestion.
// Exclusion always wins over inclusion.
func (c Classifier) Admit(title string) bool {
	lowered := strings.ToLower(title)

	included := false
	for _, kw := range c.includes {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, kw := range c.excludes {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return false
		}
	}

	return true
}
