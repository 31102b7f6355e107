package narrative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
)

type fakeImprover struct {
	result string
	err    error
	called bool
}

func (f *fakeImprover) ImproveText(_ context.Context, _ string) (string, error) {
	f.called = true
	return f.result, f.err
}

const sampleDescription = "Detail Keluhan : internet lemot ket dirumah ga bisa streaming\n" +
	"Nama Customer : Budi Santoso\n" +
	"MSISDN : 628123456789\n" +
	"Tanggal Kejadian : 2025-06-01 14:00\n" +
	"Lokasi Pelanggan (alamat) : Jl. Sudirman No. 1, Jakarta Pusat\n" +
	"Kategori Keluhan : Data/Internet\n" +
	"Customer Tier pelanggan : Gold\n" +
	"SIM Capability : 4G"

func detailRow() complaintdb.Row {
	return complaintdb.Row{
		"order_id": "CC-20250601-00000042",
		"description_fault_sumptomps_create_ticket": sampleDescription,
		"type_jaringan":            "4G",
		"type_handset":             "SAMSUNG",
		"latitude_l2_assign":       "-6.2088",
		"longitude_l2_assign":      "106.8456",
		"cch_suggestion_l1_assign": "cause: Weak Coverage, Category: Coverage; Dominant Cell: JKT001; suggestion: 1. If nearest sites no serving, need crosscheck Availability;;2. Check whether area serving are blocking by building or countour, other: none",
	}
}

func TestDetailRendersFields(t *testing.T) {
	improver := &fakeImprover{result: "Internet lambat, keterangan di rumah tidak bisa streaming."}
	g := NewGenerator(improver)

	got := g.Detail(context.Background(), detailRow())

	assert.Contains(t, got, "**No. Ticket** : CC-20250601-00000042")
	assert.Contains(t, got, "**Detail Keluhan** : Internet lambat, keterangan di rumah tidak bisa streaming.")
	assert.Contains(t, got, "**Nama** : Budi Santoso")
	assert.Contains(t, got, "**MSISDN** : 628123456789")
	assert.Contains(t, got, "**Tanggal Kejadian** : 2025-06-01 14:00")
	assert.Contains(t, got, "**Lokasi** : Jl. Sudirman No. 1, Jakarta Pusat")
	assert.Contains(t, got, "**Long Lat** : -6.2088, 106.8456")
	assert.Contains(t, got, "**Mode Jaringan** : 4G")
	assert.Contains(t, got, "**Kategori Keluhan** : Data/Internet")
	assert.Contains(t, got, "**Tipe Pelanggan** : Gold")
	assert.Contains(t, got, "**SIM Capability** : 4G")
	assert.Contains(t, got, "**Device** : SAMSUNG")
	assert.Contains(t, got, "------------------")
	assert.True(t, improver.called)
}

func TestDetailTechnicalAnalysisSection(t *testing.T) {
	g := NewGenerator(nil)
	got := g.Detail(context.Background(), detailRow())

	assert.Contains(t, got, "**Technical Analysis (CCH):**")
	assert.Contains(t, got, "• **Cause:** Weak Coverage")
	assert.Contains(t, got, "• **Category:** Coverage")
	assert.Contains(t, got, "• **Dominant Cell:** JKT001")
	assert.Contains(t, got, "🔧 Jika site terdekat tidak serving, perlu crosscheck Availability")
	assert.Contains(t, got, "🔍 Periksa apakah area serving terhalang oleh building atau countour")
}

func TestDetailImproverFallback(t *testing.T) {
	g := NewGenerator(&fakeImprover{err: errors.New("provider down")})
	got := g.Detail(context.Background(), detailRow())

	// Substitution table kicks in when the improver fails.
	assert.Contains(t, got, "internet lemot keterangan dirumah tidak bisa streaming")
}

func TestDetailMissingFields(t *testing.T) {
	g := NewGenerator(nil)
	row := complaintdb.Row{"order_id": "CC-1"}

	got := g.Detail(context.Background(), row)
	assert.Contains(t, got, "**Detail Keluhan** : N/A")
	assert.Contains(t, got, "**Long Lat** : Tidak tersedia")
	assert.Contains(t, got, "**Device** : N/A")
	assert.NotContains(t, got, "Technical Analysis")
}

func TestDetailEmptyRow(t *testing.T) {
	g := NewGenerator(nil)
	assert.Equal(t, "❌ Data tidak ditemukan.", g.Detail(context.Background(), nil))
}

func TestDetailNotFoundMessages(t *testing.T) {
	g := NewGenerator(nil)

	ticket := entity.Set{}
	ticket.Add(entity.CategoryDetail, entity.Entity{
		Field: "order_id", Value: "CC-20250601-00000099",
		SearchType: entity.SearchExact, EntityType: entity.TypeTicketID,
	})
	assert.Equal(t, "❌ Ticket dengan ID **CC-20250601-00000099** tidak ditemukan.", g.DetailNotFound(ticket))

	msisdn := entity.Set{}
	msisdn.Add(entity.CategoryDetail, entity.Entity{
		Field: "service_number", Value: "628123456789",
		SearchType: entity.SearchExact, EntityType: entity.TypeMSISDN,
	})
	assert.Equal(t, "❌ Data untuk MSISDN **628123456789** tidak ditemukan.", g.DetailNotFound(msisdn))

	assert.Equal(t, "❌ Data tidak ditemukan.", g.DetailNotFound(entity.Set{}))
}
