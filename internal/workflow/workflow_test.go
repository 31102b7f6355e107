package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	"github.com/telcoinsight/keluhan-bot-go/internal/intent"
	"github.com/telcoinsight/keluhan-bot-go/internal/knowledge"
	"github.com/telcoinsight/keluhan-bot-go/internal/llm"
	"github.com/telcoinsight/keluhan-bot-go/internal/narrative"
	"github.com/telcoinsight/keluhan-bot-go/internal/session"
	"github.com/telcoinsight/keluhan-bot-go/internal/sqlbuild"
)

type fakeWarehouse struct {
	rows      []complaintdb.Row
	err       error
	gotIntent string
	gotQuery  string
	calls     int
}

func (f *fakeWarehouse) Query(_ context.Context, intent, query string) ([]complaintdb.Row, error) {
	f.calls++
	f.gotIntent = intent
	f.gotQuery = query
	return f.rows, f.err
}

type fakeLive struct {
	reply string
	got   string
}

func (f *fakeLive) Execute(_ context.Context, query string) string {
	f.got = query
	return f.reply
}

type fakeKnowledge struct {
	reply string
	got   string
}

func (f *fakeKnowledge) Answer(_ context.Context, query string) string {
	f.got = query
	return f.reply
}

type fakeReasoner struct {
	classification *llm.Classification
	err            error
}

func (f *fakeReasoner) Classify(_ context.Context, _ string) (*llm.Classification, error) {
	return f.classification, f.err
}

func testDeps(wh Warehouse) (Deps, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour)
	return Deps{
		Classifier:  intent.NewClassifier(nil, session.NewResolver(nil, nil), nil),
		Extractor:   entity.NewExtractor(),
		Builder:     sqlbuild.NewBuilder("network_complaints"),
		Warehouse:   wh,
		Narrator:    narrative.NewGenerator(nil),
		Live:        &fakeLive{reply: "live reply"},
		Knowledge:   &fakeKnowledge{reply: "knowledge reply"},
		HasDataRefs: knowledge.HasDatabasePatterns,
		Sessions:    store,
	}, store
}

// history returns the stored interactions for a session, or nil when the
// session was never persisted.
func history(t *testing.T, store *session.MemoryStore, sessionID string) []session.Interaction {
	t.Helper()
	state, err := store.Get(context.Background(), sessionID)
	if err != nil {
		return nil
	}
	return state.History
}

func TestHandleOffTopicNotSaved(t *testing.T) {
	wh := &fakeWarehouse{}
	deps, store := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "rekomendasi makanan padang enak")

	assert.Equal(t, "off_topic", resp.Workflow)
	assert.Contains(t, resp.Text, "tidak terkait dengan sistem tiket keluhan")
	assert.Zero(t, wh.calls)
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleSystemCapability(t *testing.T) {
	deps, store := testDeps(&fakeWarehouse{})
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "siapa kamu dan bisa apa?")

	assert.Equal(t, "system_capability", resp.Workflow)
	assert.Contains(t, resp.Text, "sistem AI untuk analisis keluhan pelanggan")
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleSystemPromptSkipped(t *testing.T) {
	deps, store := testDeps(&fakeWarehouse{})
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "### Task: generate follow-up questions")

	assert.Equal(t, "System prompt skipped", resp.Text)
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleLiveLookup(t *testing.T) {
	deps, store := testDeps(&fakeWarehouse{})
	live := &fakeLive{reply: "📱 Analisis nomor selesai"}
	deps.Live = live
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "cek kuota 08111992172 jam 10")

	assert.Equal(t, "live_lookup", resp.Workflow)
	assert.Equal(t, "📱 Analisis nomor selesai", resp.Text)
	assert.Equal(t, "cek kuota 08111992172 jam 10", live.got)

	saved := history(t, store, "s1")
	require.Len(t, saved, 1)
	assert.Equal(t, "live_lookup", saved[0].QueryType)
}

func TestHandleLiveLookupUnconfigured(t *testing.T) {
	deps, store := testDeps(&fakeWarehouse{})
	deps.Live = nil
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "cek 08111992172")

	assert.Contains(t, resp.Text, "tidak tersedia")
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleKnowledge(t *testing.T) {
	deps, store := testDeps(&fakeWarehouse{})
	kn := &fakeKnowledge{reply: "RSRP adalah kekuatan sinyal referensi."}
	deps.Knowledge = kn
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "apa itu RSRP")

	assert.Equal(t, "knowledge", resp.Workflow)
	assert.Equal(t, "RSRP adalah kekuatan sinyal referensi.", resp.Text)
	assert.Equal(t, "apa itu RSRP", kn.got)

	saved := history(t, store, "s1")
	require.Len(t, saved, 1)
	assert.Equal(t, "knowledge", saved[0].QueryType)
}

func TestHandleKnowledgeReroutesDataReferences(t *testing.T) {
	wh := &fakeWarehouse{}
	deps, _ := testDeps(wh)
	deps.Classifier = intent.NewClassifier(&fakeReasoner{
		classification: &llm.Classification{Category: llm.CategoryKnowledge, Confidence: 0.9},
	}, nil, nil)
	kn := &fakeKnowledge{reply: "glossary answer"}
	deps.Knowledge = kn
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "jelaskan tiket CC-20250601-00000042")

	assert.Equal(t, sqlbuild.IntentDetail, resp.Workflow)
	assert.Equal(t, 1, wh.calls)
	assert.Empty(t, kn.got)
	assert.Contains(t, resp.Text, "CC-20250601-00000042")
	assert.Contains(t, resp.Text, "tidak ditemukan")
}

func TestHandleCountPipeline(t *testing.T) {
	wh := &fakeWarehouse{rows: []complaintdb.Row{{"total_count": int64(7)}}}
	deps, store := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "berapa keluhan di jakarta barat hari ini?")

	assert.Equal(t, sqlbuild.IntentCount, resp.Workflow)
	assert.Equal(t, sqlbuild.IntentCount, wh.gotIntent)
	assert.Contains(t, resp.Text, "**7 keluhan**")
	assert.Contains(t, resp.Text, "Jakarta Barat")

	saved := history(t, store, "s1")
	require.Len(t, saved, 1)
	assert.Equal(t, sqlbuild.IntentCount, saved[0].QueryType)
	assert.True(t, saved[0].Entities.Has(entity.CategoryGeographic))
}

func TestHandleSummaryCalculationError(t *testing.T) {
	wh := &fakeWarehouse{rows: []complaintdb.Row{{
		"total_keluhan":               int64(0),
		"customer_type_create_ticket": "Consumer",
		"business_status":             "Open",
	}}}
	deps, store := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "ringkasan keluhan bulan ini")

	assert.Equal(t, calculationErrorMessage, resp.Text)
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleCountWarehouseError(t *testing.T) {
	wh := &fakeWarehouse{err: errors.New("connection refused")}
	deps, store := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "berapa keluhan internet?")

	assert.Contains(t, resp.Text, "Gagal menghitung keluhan")
	assert.NotContains(t, resp.Text, "connection refused")
	assert.Empty(t, history(t, store, "s1"))
}

func TestHandleListWarehouseError(t *testing.T) {
	wh := &fakeWarehouse{err: errors.New("connection refused")}
	deps, _ := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "contoh keluhan jaringan")

	assert.Contains(t, resp.Text, "workflow list")
	assert.NotContains(t, resp.Text, "connection refused")
}

func TestHandleFollowupInheritsContext(t *testing.T) {
	wh := &fakeWarehouse{rows: []complaintdb.Row{{
		"order_id":                     "CC-20250601-00000042",
		"create_time":                  "2025-06-01 10:00:00",
		"kabupaten_kota_create_ticket": "Bandung",
		"customer_type_create_ticket":  "Consumer",
		"business_status":              "BusinessStatusInProgress",
	}}}
	deps, store := testDeps(wh)
	r := NewRouter(deps)

	ctx := context.Background()
	state, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	state.Append(session.Interaction{
		Timestamp: time.Now(),
		Query:     "berapa keluhan di bandung bulan ini",
		Response:  "🔢 Ditemukan **12 keluhan** di Bandung bulan ini.",
		QueryType: sqlbuild.IntentCount,
		Entities: entity.Set{
			entity.CategoryGeographic: {{
				Field:      "kabupaten_kota_create_ticket",
				Value:      "Bandung",
				SearchType: entity.SearchContains,
			}},
			entity.CategoryTemporal: {{
				Field:      "create_time",
				Value:      "toStartOfMonth(create_time) = toStartOfMonth(now())",
				SearchType: entity.SearchRawSQL,
			}},
		},
	})
	require.NoError(t, store.Put(ctx, state))

	resp := r.Handle(ctx, "s1", "kasih contoh yang tadi dong")

	assert.Equal(t, intent.IntentFollowup, resp.Intent)
	assert.Equal(t, sqlbuild.IntentList, resp.Workflow)
	assert.Contains(t, resp.Text, "Bandung")
	assert.Contains(t, wh.gotQuery, "Bandung")
	assert.Contains(t, wh.gotQuery, "toStartOfMonth")

	saved := history(t, store, "s1")
	require.Len(t, saved, 2)
	assert.Equal(t, sqlbuild.IntentList, saved[1].QueryType)
}

func TestHandleDefaultsToList(t *testing.T) {
	wh := &fakeWarehouse{rows: nil}
	deps, _ := testDeps(wh)
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "s1", "keluhan wifi pelanggan")

	assert.Equal(t, sqlbuild.IntentList, resp.Workflow)
	assert.Contains(t, resp.Text, "Tidak ada keluhan ditemukan")
}

func TestHandleGeneratesSessionID(t *testing.T) {
	deps, _ := testDeps(&fakeWarehouse{})
	r := NewRouter(deps)

	resp := r.Handle(context.Background(), "", "siapa kamu")
	assert.NotEmpty(t, resp.SessionID)
}
