package narrative

import (
	"regexp"
	"strings"
)

// The CCH suggestion field is a single comma/semicolon-delimited blob,
// e.g. "cause: Weak Coverage, Category: Coverage; Dominant Cell: X;
// suggestion: 1. ...;;2. ..., other: ...".
var (
	causeRe      = regexp.MustCompile(`(?i)cause:\s*([^,]+)`)
	categoryRe   = regexp.MustCompile(`(?i)Category:\s*([^;]+)`)
	domCellRe    = regexp.MustCompile(`(?i)Dominant\s+Cell:\s*([^;]+)`)
	suggestionRe = regexp.MustCompile(`(?i)suggestion:\s*(.*?)(?:,\s*other:|$)`)
	numberingRe  = regexp.MustCompile(`^\d+\.\s*`)
)

// analysisOrder fixes the render order of the technical analysis block.
var analysisOrder = []string{"cause", "category", "dominant_cell", "suggestions"}

var analysisLabels = map[string]string{
	"cause":         "Cause",
	"category":      "Category",
	"dominant_cell": "Dominant Cell",
	"suggestions":   "Suggestions",
}

// Known English suggestions get curated Indonesian translations; anything
// else passes through with a wrench glyph.
var suggestionTranslations = map[string]string{
	"If nearest sites no serving, need crosscheck Availability":                          "🔧 Jika site terdekat tidak serving, perlu crosscheck Availability",
	"Make RSRP serving cells more dominant, by increase RS Power, Uptilt or reazimuth":   "📡 Buat RSRP serving cells lebih dominan dengan meningkatkan RS Power, Uptilt atau reazimuth",
	"Check whether area serving are blocking by building or countour":                    "🔍 Periksa apakah area serving terhalang oleh building atau countour",
}

// ParseTechnicalAnalysis extracts the structured fields from a raw CCH
// suggestion blob. Returns an empty map when nothing matched or the blob
// is a placeholder.
func ParseTechnicalAnalysis(raw string) map[string]string {
	analysis := make(map[string]string)

	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "N/A") {
		return analysis
	}

	if m := causeRe.FindStringSubmatch(raw); m != nil {
		analysis["cause"] = strings.TrimSpace(m[1])
	}
	if m := categoryRe.FindStringSubmatch(raw); m != nil {
		analysis["category"] = strings.TrimSpace(m[1])
	}
	if m := domCellRe.FindStringSubmatch(raw); m != nil {
		analysis["dominant_cell"] = strings.TrimSpace(m[1])
	}
	if m := suggestionRe.FindStringSubmatch(raw); m != nil {
		if suggestions := parseSuggestions(m[1]); len(suggestions) > 0 {
			analysis["suggestions"] = strings.Join(suggestions, "\n  ")
		}
	}

	return analysis
}

// parseSuggestions splits the ";;"-delimited suggestion list, strips the
// "1. " style numbering, and translates each entry.
func parseSuggestions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";;") {
		text := numberingRe.ReplaceAllString(strings.TrimSpace(part), "")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, translateSuggestion(text))
	}
	return out
}

func translateSuggestion(text string) string {
	if translated, ok := suggestionTranslations[text]; ok {
		return translated
	}
	return "🔧 " + text
}
