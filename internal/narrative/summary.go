package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

type breakdownEntry struct {
	key   string
	count int
}

// Summary renders the aggregate breakdown narrative. Returns
// ErrCalculation when rows exist but their counts sum to zero, since
// every percentage would divide by zero; callers surface that as a
// distinct user message.
func (g *Generator) Summary(rows []complaintdb.Row, entities entity.Set) (string, error) {
	location := locationPhrase(entities)
	period := timePhrase(entities)

	if len(rows) == 0 {
		return fmt.Sprintf("📊 **Tidak ditemukan keluhan di %s %s**", location, period), nil
	}

	total := 0
	customerCounts := make(map[string]int)
	statusCounts := make(map[string]int)
	for _, row := range rows {
		count := toInt(row["total_keluhan"])
		total += count

		custType := toString(row["customer_type_create_ticket"])
		if custType == "" {
			custType = "Unknown"
		}
		customerCounts[custType] += count

		status := toString(row["business_status"])
		if status == "" {
			status = "Unknown"
		}
		statusCounts[status] += count
	}

	if total <= 0 {
		return "", fmt.Errorf("%w: summary rows sum to zero complaints", domerrors.ErrCalculation)
	}

	customerSorted := sortBreakdown(customerCounts)
	statusSorted := sortBreakdown(statusCounts)

	var parts []string

	parts = append(parts, fmt.Sprintf("📊 **Ringkasan Keluhan di %s %s**\n", location, period))
	parts = append(parts, fmt.Sprintf("Total **%d keluhan** ditemukan dari **%d record** data.", total, len(rows)))

	switch {
	case total < 10:
		parts = append(parts, fmt.Sprintf("📈 **Overview:** Volume keluhan rendah dengan %d keluhan total.", total))
	case total < 50:
		parts = append(parts, fmt.Sprintf("📈 **Overview:** Volume keluhan sedang dengan %d keluhan total.", total))
	default:
		parts = append(parts, fmt.Sprintf("📈 **Overview:** Volume keluhan tinggi dengan %d keluhan total, memerlukan perhatian khusus.", total))
	}

	parts = append(parts, "👥 **Breakdown per Tipe Customer:**")
	for i, e := range top(customerSorted, 3) {
		pct := percent(e.count, total)
		display := displayCustomer(e.key)
		if i == 0 {
			parts = append(parts, fmt.Sprintf("• **%s**: %d keluhan (%.1f%%) - *Dominan*", display, e.count, pct))
		} else {
			parts = append(parts, fmt.Sprintf("• **%s**: %d keluhan (%.1f%%)", display, e.count, pct))
		}
	}

	parts = append(parts, "📋 **Status Keluhan:**")
	for _, e := range top(statusSorted, 3) {
		pct := percent(e.count, total)
		parts = append(parts, fmt.Sprintf("• %s **%s**: %d keluhan (%.1f%%)", statusGlyph(e.key), displayStatus(e.key), e.count, pct))
	}

	parts = append(parts, "🔍 **Key Insights:**")
	for _, insight := range g.summaryInsights(customerSorted, statusSorted, total) {
		parts = append(parts, "• "+insight)
	}

	return strings.Join(parts, "\n\n"), nil
}

// summaryInsights applies the fixed insight rules in order; when none
// fires a generic "normal distribution" line is emitted.
func (g *Generator) summaryInsights(customerSorted, statusSorted []breakdownEntry, total int) []string {
	var insights []string

	if len(customerSorted) > 0 {
		dominant := customerSorted[0]
		if pct := percent(dominant.count, total); pct > 70 {
			insights = append(insights, fmt.Sprintf("🎯 Customer **%s** mendominasi dengan %.1f%% keluhan",
				displayCustomer(dominant.key), pct))
		}
	}

	if len(statusSorted) > 0 {
		dominant := statusSorted[0]
		pct := percent(dominant.count, total)
		switch {
		case strings.Contains(dominant.key, "Progress") && pct > 60:
			insights = append(insights, fmt.Sprintf("⚠️ %.1f%% keluhan masih **%s** - perlu follow up",
				pct, displayStatus(dominant.key)))
		case (strings.Contains(dominant.key, "Resovled") || strings.Contains(dominant.key, "Resolved")) && pct > 70:
			insights = append(insights, fmt.Sprintf("✅ %.1f%% keluhan sudah **%s** - indikator positif",
				pct, displayStatus(dominant.key)))
		}
	}

	if total > 100 {
		insights = append(insights, "📈 Volume tinggi memerlukan prioritas penanganan")
	} else if total < 5 {
		insights = append(insights, "📉 Volume rendah menunjukkan kondisi stabil")
	}

	if len(insights) == 0 {
		insights = append(insights, "📋 Data menunjukkan pola distribusi normal")
	}
	return insights
}

func sortBreakdown(counts map[string]int) []breakdownEntry {
	entries := make([]breakdownEntry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, breakdownEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

func top(entries []breakdownEntry, n int) []breakdownEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func percent(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

func displayCustomer(key string) string {
	if mapped, ok := customerTypeMapping[key]; ok {
		return mapped
	}
	return key
}

func displayStatus(key string) string {
	if mapped, ok := statusMapping[key]; ok {
		return mapped
	}
	return key
}
