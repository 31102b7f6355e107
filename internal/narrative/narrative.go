// Package narrative renders query results into Indonesian response text.
// Every generator is deterministic given its inputs; the only external
// call is the best-effort complaint-text improver, which always has a
// local fallback.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
)

// TextImprover rewrites agent shorthand into readable prose. *llm.Client
// implements it; nil is fine.
type TextImprover interface {
	ImproveText(ctx context.Context, text string) (string, error)
}

// Generator renders narratives for every intent.
type Generator struct {
	improver TextImprover
}

// NewGenerator creates a generator. improver may be nil.
func NewGenerator(improver TextImprover) *Generator {
	return &Generator{improver: improver}
}

// Warehouse status values translated for display.
var statusMapping = map[string]string{
	"BusinessStatusInProgress": "Dalam Proses",
	"BusinessStatusResovled":   "Selesai",
	"BusinessStatusClosed":     "Ditutup",
	"BusinessStatusOpen":       "Terbuka",
	"Open":                     "Terbuka",
	"Closed":                   "Ditutup",
}

var customerTypeMapping = map[string]string{
	"Consumer":  "Konsumen",
	"Corporate": "Korporat",
	"B2C":       "Business to Consumer",
	"B2B":       "Business to Business",
}

// Count renders the single-sentence count narrative.
func (g *Generator) Count(rows []complaintdb.Row, entities entity.Set) string {
	total := 0
	if len(rows) > 0 {
		total = toInt(rows[0]["total_count"])
	}

	return fmt.Sprintf("🔢 Ditemukan **%d keluhan** di %s %s.",
		total, locationPhrase(entities), timePhrase(entities))
}

// List renders up to 5 example complaints. The header and the empty-result
// message both change when an in-progress status filter was active.
func (g *Generator) List(rows []complaintdb.Row, entities entity.Set) string {
	pending := hasInProgressFilter(entities)
	location := locationPhrase(entities)
	period := timePhrase(entities)

	if len(rows) == 0 {
		if pending {
			return fmt.Sprintf("Ditemukan **0 keluhan** yang masih dalam proses penyelesaian di %s %s.", location, period)
		}
		return fmt.Sprintf("📋 Tidak ada keluhan ditemukan di %s %s.", location, period)
	}

	var b strings.Builder
	if pending {
		fmt.Fprintf(&b, "📋 **Contoh Keluhan yang Belum Selesai di %s %s:**\n", location, period)
	} else {
		fmt.Fprintf(&b, "📋 **Contoh Keluhan di %s %s:**\n", location, period)
	}

	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		row := rows[i]
		fmt.Fprintf(&b, "\n%d. 🎫 **%s**\n", i+1, toString(row["order_id"]))
		fmt.Fprintf(&b, "   📅 %s\n", formatCreateTime(row["create_time"]))
		if city := toString(row["kabupaten_kota_create_ticket"]); city != "" {
			fmt.Fprintf(&b, "   📍 %s\n", city)
		}
		fmt.Fprintf(&b, "   %s\n", customerLine(toString(row["customer_type_create_ticket"])))
		fmt.Fprintf(&b, "   %s\n", statusLine(toString(row["business_status"])))
		if priority := toString(row["priority_l2_assign"]); priority != "" {
			fmt.Fprintf(&b, "   %s %s\n", priorityGlyph(priority), priority)
		}
		if desc := truncate(toString(row["description"]), 120); desc != "" {
			fmt.Fprintf(&b, "   📝 %s\n", desc)
		}
	}

	return b.String()
}

func hasInProgressFilter(entities entity.Set) bool {
	for _, e := range entities[entity.CategoryStatus] {
		if e.Value == "BusinessStatusInProgress" {
			return true
		}
	}
	return false
}

func statusLine(status string) string {
	display := status
	if mapped, ok := statusMapping[status]; ok {
		display = mapped
	}
	return statusGlyph(status) + " " + display
}

func statusGlyph(status string) string {
	switch {
	case strings.Contains(status, "Progress") || strings.Contains(status, "Open"):
		return "🔄"
	case strings.Contains(status, "Resovled") || strings.Contains(status, "Resolved") || strings.Contains(status, "Closed"):
		return "✅"
	}
	return "📌"
}

func customerLine(custType string) string {
	display := custType
	if mapped, ok := customerTypeMapping[custType]; ok {
		display = mapped
	}

	glyph := "👥"
	switch custType {
	case "Consumer":
		glyph = "👤"
	case "Corporate":
		glyph = "🏢"
	}
	return glyph + " " + display
}

func priorityGlyph(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	}
	return "⚪"
}

func formatCreateTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("02 Jan 2006, 15:04")
	case string:
		return t
	}
	return "N/A"
}

// truncate cuts on a rune boundary so multi-byte text in complaint
// descriptions is never split mid-sequence.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

// locationPhrase returns the first geographic entity's value, or a
// generic phrase when the query named no location.
func locationPhrase(entities entity.Set) string {
	if geo, ok := entities.First(entity.CategoryGeographic); ok && geo.Value != "" {
		return geo.Value
	}
	return "lokasi yang diminta"
}

// timePhrase reverse-engineers a human phrase from the temporal entity's
// raw condition. Best effort: unrecognized shapes get a generic phrase.
func timePhrase(entities entity.Set) string {
	temporal, ok := entities.First(entity.CategoryTemporal)
	if !ok {
		return "periode yang diminta"
	}
	value := strings.ToLower(temporal.Value)

	switch {
	case strings.Contains(value, "- tointervalweek(1)"), strings.Contains(value, "- interval 1 week"):
		return "minggu lalu"
	case strings.Contains(value, "- tointervalmonth(1)"), strings.Contains(value, "- interval 1 month"):
		return "bulan lalu"
	case strings.Contains(value, "- tointervalday(1)"), strings.Contains(value, "- interval 1 day"):
		return "kemarin"
	}

	if strings.Contains(value, "current_date") || strings.Contains(value, "today()") {
		switch {
		case strings.Contains(value, "week"), strings.Contains(value, "tomonday"):
			return "minggu ini"
		case strings.Contains(value, "month"), strings.Contains(value, "tostartofmonth"):
			return "bulan ini"
		default:
			return "hari ini"
		}
	}

	return "periode yang diminta"
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
