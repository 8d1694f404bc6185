package gateway

import "strings"

// DefaultSpamPhrases returns the stock denylist matched against submissions.
// Matches are substring checks over the lowercased name and message.
func DefaultSpamPhrases() []string {
	return []string{
		"seo ranking",
		"guaranteed traffic",
		"page one of google",
		"buy backlinks",
		"link building service",
		"crypto investment",
		"binary options",
		"forex signals",
		"make money fast",
		"work from home opportunity",
		"viagra",
		"casino bonus",
		"adult content",
		"buy followers",
	}
}

// matchesSpamPhrase reports whether any denylist entry appears in the
// lowercase concatenation of name and message.
func matchesSpamPhrase(name, message string, phrases []string) bool {
	if len(phrases) == 0 {
		return false
	}
	haystack := strings.ToLower(name + " " + message)
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		if strings.Contains(haystack, phrase) {
			return true
		}
	}
	return false
}
