package smartcare

import (
	"regexp"
	"strings"
)

// Sub-intents of a live lookup.
const (
	SubIntentUsage   = "usage"
	SubIntentHistory = "history"
	SubIntentDetail  = "detail"
	SubIntentCheck   = "check"
	SubIntentStatus  = "status"
	SubIntentChart   = "chart"
)

// Intent keyword tables, tried in order; first hit wins.
var subIntentKeywords = []struct {
	intent   string
	keywords []string
}{
	{SubIntentUsage, []string{"usage", "penggunaan", "data", "kuota", "traffic", "konsumsi"}},
	{SubIntentHistory, []string{"history", "riwayat", "histori", "record", "catatan"}},
	{SubIntentDetail, []string{"detail", "detil", "info", "informasi", "lengkap"}},
	{SubIntentCheck, []string{"cek", "check", "lihat", "tampilkan", "show"}},
	{SubIntentStatus, []string{"status", "kondisi", "keadaan", "situasi"}},
	{SubIntentChart, []string{"chart", "grafik", "graph", "visualisasi", "diagram"}},
}

// msisdnExtractRe finds the first phone-number-looking token in a query.
// Validation happens separately; this only locates the candidate.
var msisdnExtractRe = regexp.MustCompile(`\+?628\d{8,12}|\b0?8\d{8,12}\b`)

// DetectSubIntent picks the lookup flavor from query keywords. Structural
// hints ("berapa" implies a quantity question) break ties before the
// check default.
func DetectSubIntent(query string) string {
	lower := strings.ToLower(query)

	for _, table := range subIntentKeywords {
		for _, kw := range table.keywords {
			if strings.Contains(lower, kw) {
				return table.intent
			}
		}
	}

	switch {
	case containsAny(lower, []string{"berapa", "jumlah", "total"}):
		return SubIntentUsage
	case containsAny(lower, []string{"tampilkan", "lihat", "show"}):
		return SubIntentChart
	}
	return SubIntentCheck
}

// ExtractMSISDN returns the first candidate phone number in the query, or
// "" when none appears.
func ExtractMSISDN(query string) string {
	return msisdnExtractRe.FindString(query)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
