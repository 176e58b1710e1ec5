package cricketapi

import (
	"regexp"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

// statusRules are checked in order against the lower-cased status text.
// Keywords anchor on a word start so "tea" never fires inside "team";
// stems such as "abandon" and "delay" still cover their inflections.
var statusRules = []struct {
	status  match.Status
	pattern *regexp.Regexp
}{
	{match.StatusAbandoned, keywordPattern(`abandon`)},
	{match.StatusCancelled, keywordPattern(`cancel`, `no result\b`)},
	{match.StatusLive, keywordPattern(`won the toss\b`, `opts? to\b`)},
	{match.StatusCompleted, keywordPattern(`complete`, `result\b`, `won\b`, `drawn\b`, `tied\b`)},
	{match.StatusLive, keywordPattern(`progress\b`, `live\b`, `innings break\b`, `stumps\b`, `lunch\b`, `tea\b`, `drinks\b`, `delay`)},
}

func keywordPattern(keywords ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + strings.Join(keywords, `|`) + `)`)
}

// ClassifyStatus maps free-form upstream state text to a match status.
// Unrecognized or empty text means the match has not started.
func ClassifyStatus(texts ...string) match.Status {
	for _, text := range texts {
		lower := strings.ToLower(strings.TrimSpace(text))
		if lower == "" {
			continue
		}
		for _, rule := range statusRules {
			if rule.pattern.MatchString(lower) {
				return rule.status
			}
		}
	}
	return match.StatusUpcoming
}
