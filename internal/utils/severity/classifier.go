package severity

import (
	"strings"

	"ame_support_backend/internal/models"
)

var (
	emergencyKeywords = []string{
		"emergency", "urgent", "help", "danger", "threat", "violence", "abuse",
		"hurt", "injured", "hospital", "police", "immediate", "now", "crisis",
	}

	highKeywords = []string{
		"scared", "fear", "afraid", "unsafe", "threatened", "harassment",
		"stalking", "violent", "aggressive", "dangerous",
	}

	mediumKeywords = []string{
		"worried", "concerned", "stress", "anxiety", "depressed", "sad",
		"overwhelmed", "confused", "need help", "support",
	}
)

// Classify maps free text to a severity. Keyword sets are checked as
// case-insensitive substrings in priority order: emergency, high, medium.
// Text matching none of them is low.
func Classify(text string) models.Severity {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, emergencyKeywords):
		return models.SeverityEmergency
	case containsAny(lower, highKeywords):
		return models.SeverityHigh
	case containsAny(lower, mediumKeywords):
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// Keywords returns a copy of the keyword set for level. Low has no keywords.
func Keywords(level models.Severity) []string {
	var set []string
	switch level {
	case models.SeverityEmergency:
		set = emergencyKeywords
	case models.SeverityHigh:
		set = highKeywords
	case models.SeverityMedium:
		set = mediumKeywords
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
