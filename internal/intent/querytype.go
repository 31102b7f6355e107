package intent

import (
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/sqlbuild"
)

// Keyword tables mapping analytics phrasing to a query shape. Checked in
// order; first hit wins.
var (
	summaryWords = []string{"summary", "ringkasan", "laporan", "rekap", "statistik"}
	countWords   = []string{"berapa", "jumlah", "total", "count"}
	listWords    = []string{"tampilkan", "lihat", "show", "contoh", "list"}
	detailWords  = []string{"detail", "cc-", "order_id", "ticket"}
)

// AnalyzeQueryType picks the analytics shape for a complaint query.
// Unrecognized phrasing defaults to list, the least surprising shape.
func AnalyzeQueryType(query string) string {
	lower := strings.ToLower(query)

	switch {
	case containsAny(lower, summaryWords):
		return sqlbuild.IntentSummary
	case containsAny(lower, countWords):
		return sqlbuild.IntentCount
	case containsAny(lower, listWords):
		return sqlbuild.IntentList
	case containsAny(lower, detailWords):
		return sqlbuild.IntentDetail
	}
	return sqlbuild.IntentList
}
