package narrative

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
)

// Field patterns for the semi-structured description blob agents paste
// into tickets. All case-insensitive; "N/A" stands in for missing fields.
var (
	keluhanRe  = regexp.MustCompile(`(?i)Detail Keluhan\s*:\s*([^\n]+)`)
	complainRe = regexp.MustCompile(`(?i)Detail Complain\s*:\s*([^\n]+)`)
	namaRe     = regexp.MustCompile(`(?i)Nama\s*(?:Customer)?\s*:\s*([^\n]+)`)
	msisdnRe   = regexp.MustCompile(`(?i)MSISDN(?:-[AB])?\s*(?:Yang\s+Bermasalah)?\s*:\s*:?(\d+)`)
	tanggalRe  = regexp.MustCompile(`(?i)Tanggal(?:/Jam)?\s*Kejadian\s*:\s*([^\n]+)`)
	lokasiRe   = regexp.MustCompile(`(?i)Lokasi\s*(?:Pelanggan)?\s*(?:\(alamat\))?\s*:\s*([^→\n]+)`)
	kategoriRe = regexp.MustCompile(`(?i)Kategori Keluhan\s*:\s*([^\n]+)`)
	tierRe     = regexp.MustCompile(`(?i)Customer Tier pelanggan\s*:\s*([^\n]+)`)
	simRe      = regexp.MustCompile(`(?i)SIM Capability\s*:\s*([^\n]+)`)
)

// Detail renders the single-ticket field dump plus the parsed technical
// analysis sub-block.
func (g *Generator) Detail(ctx context.Context, row complaintdb.Row) string {
	if len(row) == 0 {
		return "❌ Data tidak ditemukan."
	}

	orderID := fieldOr(toString(row["order_id"]))
	description := toString(row["description_fault_sumptomps_create_ticket"])
	suggestion := toString(row["cch_suggestion_l1_assign"])

	keluhan := g.extractComplaint(ctx, description)
	nama := extractField(description, namaRe)
	msisdn := extractField(description, msisdnRe)
	tanggal := extractField(description, tanggalRe)
	lokasi := extractField(description, lokasiRe)

	lat := fieldOr(toString(row["latitude_l2_assign"]))
	lng := fieldOr(toString(row["longitude_l2_assign"]))
	coords := "Tidak tersedia"
	if lat != "N/A" && lng != "N/A" {
		coords = lat + ", " + lng
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("**No. Ticket** : %s", orderID))
	parts = append(parts, fmt.Sprintf("**Detail Keluhan** : %s", keluhan))
	parts = append(parts, fmt.Sprintf("**Nama** : %s", nama))
	parts = append(parts, fmt.Sprintf("**MSISDN** : %s", msisdn))
	parts = append(parts, fmt.Sprintf("**Tanggal Kejadian** : %s", tanggal))
	parts = append(parts, "\n------------------")

	parts = append(parts, fmt.Sprintf("**Lokasi** : %s", lokasi))
	parts = append(parts, fmt.Sprintf("**Long Lat** : %s", coords))
	parts = append(parts, "\n-------------------")

	parts = append(parts, fmt.Sprintf("**Mode Jaringan** : %s", fieldOr(toString(row["type_jaringan"]))))
	parts = append(parts, fmt.Sprintf("**Kategori Keluhan** : %s", extractField(description, kategoriRe)))
	parts = append(parts, fmt.Sprintf("**Tipe Pelanggan** : %s", extractField(description, tierRe)))
	parts = append(parts, fmt.Sprintf("**SIM Capability** : %s", extractField(description, simRe)))
	parts = append(parts, fmt.Sprintf("**Device** : %s", fieldOr(toString(row["type_handset"]))))
	parts = append(parts, "\n-------------------")

	if analysis := ParseTechnicalAnalysis(suggestion); len(analysis) > 0 {
		parts = append(parts, "\n**Technical Analysis (CCH):**")
		for _, field := range analysisOrder {
			if value, ok := analysis[field]; ok {
				parts = append(parts, fmt.Sprintf("• **%s:** %s", analysisLabels[field], value))
			}
		}
	}

	return strings.Join(parts, "\n")
}

// DetailNotFound phrases the empty result by what the user asked for:
// ticket id, phone number, or anything else.
func (g *Generator) DetailNotFound(entities entity.Set) string {
	for _, e := range entities[entity.CategoryDetail] {
		switch e.EntityType {
		case entity.TypeTicketID:
			return fmt.Sprintf("❌ Ticket dengan ID **%s** tidak ditemukan.", e.Value)
		case entity.TypeMSISDN, entity.TypeMSISDNFuzzy:
			return fmt.Sprintf("❌ Data untuk MSISDN **%s** tidak ditemukan.", e.Value)
		}
	}
	return "❌ Data tidak ditemukan."
}

// extractComplaint pulls the complaint line out of the description and
// runs it through the best-effort improver.
func (g *Generator) extractComplaint(ctx context.Context, description string) string {
	raw := extractField(description, keluhanRe)
	if raw == "N/A" {
		raw = extractField(description, complainRe)
	}
	if raw == "N/A" {
		return raw
	}
	return g.improveComplaint(ctx, raw)
}

// improveComplaint asks the LLM to clean the text; the substitution table
// fallback guarantees usable prose either way.
func (g *Generator) improveComplaint(ctx context.Context, raw string) string {
	if g.improver != nil {
		if improved, err := g.improver.ImproveText(ctx, raw); err == nil && improved != "" {
			return improved
		}
	}
	return fallbackImprove(raw)
}

// fallbackImprove expands the abbreviations agents use most.
func fallbackImprove(raw string) string {
	improved := strings.ReplaceAll(raw, "ket ", "keterangan ")
	improved = strings.ReplaceAll(improved, " ga ", " tidak ")
	return improved
}

func extractField(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "N/A"
	}
	return strings.TrimSpace(m[1])
}

func fieldOr(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
