package pipeline

import (
	"strings"

	"github.com/kianwoon/report-population-tool/internal/parser"
)

type DetectResult struct {
	IsIncident bool
	Score      float64
	Reason     string
}

var detectKeywords = []string{"incident", "outage", "breach", "failure", "alert", "severity", "priority", "impact", "downtime"}

// DetectIncidentReport scores how likely a message is an incident report
// before the full extraction runs. Newsletters and chatter get skipped
// cheaply; anything carrying incident vocabulary plus a reference code or
// timestamp clears the bar.
func DetectIncidentReport(subject, text string) DetectResult {
	subjectLower := strings.ToLower(subject)
	textLower := strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subjectLower, kw) {
			score += 0.2
		}
		if strings.Contains(textLower, kw) {
			score += 0.1
		}
	}

	if parser.ExtractReference(text) != nil {
		score += 0.3
	}
	if parser.ExtractDateTime(text) != nil {
		score += 0.15
	}
	if score > 1 {
		score = 1
	}

	isIncident := score >= 0.45
	reason := "rules_negative"
	if isIncident {
		reason = "rules_positive"
	}

	return DetectResult{IsIncident: isIncident, Score: score, Reason: reason}
}
