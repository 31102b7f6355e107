// Package workflow routes a classified query to the pipeline that can
// answer it and turns every outcome, including failures, into a
// user-facing Indonesian response.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telcoinsight/keluhan-bot-go/internal/complaintdb"
	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
	"github.com/telcoinsight/keluhan-bot-go/internal/intent"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
	"github.com/telcoinsight/keluhan-bot-go/internal/narrative"
	"github.com/telcoinsight/keluhan-bot-go/internal/session"
	"github.com/telcoinsight/keluhan-bot-go/internal/sqlbuild"
)

// Warehouse executes a built statement against the complaint store.
// *complaintdb.DB implements it.
type Warehouse interface {
	Query(ctx context.Context, intent, query string) ([]complaintdb.Row, error)
}

// LiveLookup answers subscriber lookup queries. *smartcare.Service
// implements it; nil means the upstream is not configured.
type LiveLookup interface {
	Execute(ctx context.Context, query string) string
}

// KnowledgeAnswerer answers glossary and how-to queries.
type KnowledgeAnswerer interface {
	Answer(ctx context.Context, query string) string
}

// DatabasePatternChecker reports whether a knowledge-tier query actually
// carries a ticket id or phone number and belongs in the data pipeline.
type DatabasePatternChecker func(query string) bool

// Deps holds everything the router dispatches to.
type Deps struct {
	Classifier  *intent.Classifier
	Extractor   *entity.Extractor
	Builder     *sqlbuild.Builder
	Warehouse   Warehouse
	Narrator    *narrative.Generator
	Live        LiveLookup
	Knowledge   KnowledgeAnswerer
	HasDataRefs DatabasePatternChecker
	Sessions    session.Store
	Metrics     *metrics.Metrics
}

// Router owns the query lifecycle from classification to response.
type Router struct {
	deps Deps
	now  func() time.Time
}

// Response is one answered query.
type Response struct {
	SessionID string
	Intent    string
	Workflow  string
	Text      string
}

// NewRouter wires the dispatch table.
func NewRouter(deps Deps) *Router {
	return &Router{deps: deps, now: time.Now}
}

const (
	offTopicMessage = "Maaf, pertanyaan Anda sepertinya tidak terkait dengan sistem tiket keluhan pelanggan.\n\n" +
		"Saya dapat membantu Anda dengan:\n" +
		"- 🔍 Mencari tiket keluhan (contoh: \"cari tiket CC-12345\")\n" +
		"- 📊 Statistik keluhan (contoh: \"berapa keluhan di Jakarta Barat?\")\n" +
		"- 📋 Menampilkan contoh keluhan\n" +
		"- 📈 Menganalisis data keluhan pelanggan\n\n" +
		"Silakan ajukan pertanyaan yang terkait dengan data keluhan pelanggan."

	capabilityMessage = "Saya adalah sistem AI untuk analisis keluhan pelanggan.\n\n" +
		"**Status:** Sistem berjalan normal ✅\n" +
		"**Fungsi:** Menganalisis data ticket customer service\n" +
		"**Kemampuan:**\n" +
		"- 📊 Statistik keluhan per lokasi\n" +
		"- 📋 Menampilkan contoh kasus\n" +
		"- 📈 Analisis trend keluhan\n\n" +
		"Tidak, saya tidak mengalami keluhan - saya adalah tools untuk menganalisis keluhan customer! 😊"

	systemPromptSkipped = "System prompt skipped"

	calculationErrorMessage = "Maaf, terjadi kesalahan perhitungan. Data mungkin kosong atau tidak valid untuk analisis ini."

	liveLookupDisabledMessage = "🔧 Layanan pengecekan nomor sedang tidak tersedia. Silakan coba beberapa saat lagi."
)

func workflowErrorMessage(workflow string) string {
	return fmt.Sprintf("Maaf, terjadi kesalahan dalam workflow %s. Silakan coba beberapa saat lagi.", workflow)
}

// Handle answers one user query within a session. It never returns an
// error: failures become apology messages, and the raw cause goes to
// the log only.
func (r *Router) Handle(ctx context.Context, sessionID, query string) Response {
	state, err := r.deps.Sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		slog.WarnContext(ctx, "session load failed, using ephemeral state",
			"session_id", sessionID, "error", err)
		state = session.NewState(sessionID, r.now())
	}

	res := r.deps.Classifier.Classify(ctx, query, state)

	start := r.now()
	workflow, text, entities, save, ok := r.route(ctx, query, res)
	if r.deps.Metrics != nil {
		status := "success"
		if !ok {
			status = "error"
		}
		r.deps.Metrics.RecordWorkflow(workflow, status, r.now().Sub(start).Seconds())
	}

	if save && ok {
		r.saveInteraction(ctx, state, query, text, workflow, entities)
	}

	return Response{
		SessionID: state.ID,
		Intent:    res.Intent,
		Workflow:  workflow,
		Text:      text,
	}
}

// route picks the workflow for a classification. It returns the
// workflow name, the response text, the entities that produced it, and
// whether the interaction belongs in the session history. Canned
// responses are not remembered: a redirect carries no context worth
// inheriting.
func (r *Router) route(ctx context.Context, query string, res intent.Result) (workflow, text string, entities entity.Set, save, ok bool) {
	switch res.Intent {
	case intent.IntentSystemPrompt:
		return "system_prompt", systemPromptSkipped, nil, false, true

	case intent.IntentOffTopic:
		return "off_topic", offTopicMessage, nil, false, true

	case intent.IntentSystemCapability:
		return "system_capability", capabilityMessage, nil, false, true

	case intent.IntentLiveLookup:
		if r.deps.Live == nil {
			return "live_lookup", liveLookupDisabledMessage, nil, false, false
		}
		return "live_lookup", r.deps.Live.Execute(ctx, query), nil, true, true

	case intent.IntentKnowledge:
		// A ticket id or phone number inside a how-to phrasing still
		// means the user wants data, not the glossary.
		if r.deps.HasDataRefs != nil && r.deps.HasDataRefs(query) {
			queryType := intent.AnalyzeQueryType(query)
			text, entities, ok = r.analytics(ctx, query, queryType, nil)
			return queryType, text, entities, true, ok
		}
		return "knowledge", r.deps.Knowledge.Answer(ctx, query), nil, true, true

	case intent.IntentFollowup:
		queryType := ""
		if res.Enhanced != nil {
			queryType = res.Enhanced.Intent
		}
		if queryType == "" {
			queryType = intent.AnalyzeQueryType(query)
		}
		text, entities, ok = r.analytics(ctx, query, queryType, res.Enhanced)
		return queryType, text, entities, true, ok

	default:
		queryType := intent.AnalyzeQueryType(query)
		text, entities, ok = r.analytics(ctx, query, queryType, nil)
		return queryType, text, entities, true, ok
	}
}

// analytics runs the extract, build, execute, narrate pipeline for one
// of the data query types.
func (r *Router) analytics(ctx context.Context, query, queryType string, enhanced *entity.EnhancedContext) (string, entity.Set, bool) {
	entities := r.deps.Extractor.Extract(query, enhanced)

	statement, err := r.deps.Builder.Build(queryType, entities)
	if err != nil {
		slog.ErrorContext(ctx, "statement build failed",
			"workflow", queryType, "error", err)
		return workflowErrorMessage(queryType), entities, false
	}

	rows, err := r.deps.Warehouse.Query(ctx, queryType, statement)
	if err != nil {
		slog.ErrorContext(ctx, "warehouse query failed",
			"workflow", queryType, "error", err)
		if queryType == sqlbuild.IntentCount {
			return "❌ Gagal menghitung keluhan. Silakan coba beberapa saat lagi.", entities, false
		}
		return workflowErrorMessage(queryType), entities, false
	}

	switch queryType {
	case sqlbuild.IntentCount:
		return r.deps.Narrator.Count(rows, entities), entities, true

	case sqlbuild.IntentDetail:
		if len(rows) == 0 {
			return r.deps.Narrator.DetailNotFound(entities), entities, true
		}
		return r.deps.Narrator.Detail(ctx, rows[0]), entities, true

	case sqlbuild.IntentSummary:
		text, err := r.deps.Narrator.Summary(rows, entities)
		if err != nil {
			if errors.Is(err, domerrors.ErrCalculation) {
				return calculationErrorMessage, entities, false
			}
			slog.ErrorContext(ctx, "summary generation failed", "error", err)
			return workflowErrorMessage(queryType), entities, false
		}
		return text, entities, true

	default:
		return r.deps.Narrator.List(rows, entities), entities, true
	}
}

func (r *Router) saveInteraction(ctx context.Context, state *session.State, query, response, queryType string, entities entity.Set) {
	state.Append(session.Interaction{
		Timestamp: r.now(),
		Query:     query,
		Response:  response,
		QueryType: queryType,
		Entities:  entities,
	})
	if err := r.deps.Sessions.Put(ctx, state); err != nil {
		slog.WarnContext(ctx, "session save failed",
			"session_id", state.ID, "error", err)
	}
}
