package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	"github.com/telcoinsight/keluhan-bot-go/internal/llm"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
)

// followupTriggers are Indonesian continuation markers. A query counts as
// a follow-up only when one of these appears AND prior history exists.
var followupTriggers = []string{
	"tersebut",
	"itu",
	"tadi",
	"sebelumnya",
	"contohnya",
	"contoh nya",
	"berikan contoh",
	"kasih contoh",
	"yang belum",
	"yang sudah",
	"yang mana",
	"detailnya",
	"detilnya",
	"lanjut",
	"selanjutnya",
	"bagaimana dengan",
	"gimana dengan",
	"kalau di",
}

// IsFollowup reports whether the query continues the previous turn.
func IsFollowup(query string, state *State) bool {
	if state == nil || len(state.History) == 0 {
		return false
	}

	lower := strings.ToLower(query)
	for _, trigger := range followupTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// Enhancer decides what context a follow-up inherits. *llm.Client
// implements it; it may be nil.
type Enhancer interface {
	EnhanceFollowup(ctx context.Context, query, previousQuery, previousResponse string) (*llm.FollowupEnhancement, error)
}

// Resolver builds the enhanced context for follow-up queries.
type Resolver struct {
	enhancer Enhancer
	metrics  *metrics.Metrics
}

// NewResolver creates a resolver. Both arguments may be nil.
func NewResolver(enhancer Enhancer, m *metrics.Metrics) *Resolver {
	return &Resolver{enhancer: enhancer, metrics: m}
}

// BuildEnhancedContext merges the prior turn's entities with the
// enhancer's inheritance decision. When the enhancer is unavailable or
// fails, the conservative default inherits both location and time with
// intent "list": a "show me more of the same" reading.
func (r *Resolver) BuildEnhancedContext(ctx context.Context, query string, state *State) *entity.EnhancedContext {
	last, ok := state.Last()
	if !ok {
		return nil
	}

	decision := r.decide(ctx, query, last)

	enhanced := &entity.EnhancedContext{
		Intent:          decision.Intent,
		InheritLocation: decision.InheritLocation,
		InheritTime:     decision.InheritTime,
		Filters:         decision.Filters,
	}

	if decision.InheritLocation {
		if geos := last.Entities[entity.CategoryGeographic]; len(geos) > 0 {
			enhanced.GeoEntities = geos
			enhanced.Location = geos[0].Value
		}
	}
	if decision.InheritTime {
		if temporal, ok := last.Entities.First(entity.CategoryTemporal); ok {
			enhanced.Timeframe = temporal.Value
		}
	}

	return enhanced
}

func (r *Resolver) decide(ctx context.Context, query string, last Interaction) llm.FollowupEnhancement {
	if r.enhancer != nil {
		decision, err := r.enhancer.EnhanceFollowup(ctx, query, last.Query, last.Response)
		if err == nil && decision != nil {
			if r.metrics != nil {
				r.metrics.RecordFollowup("llm")
			}
			return *decision
		}
		if err != nil {
			slog.WarnContext(ctx, "followup enhancement failed, using heuristic default",
				"error", err)
		}
	}

	if r.metrics != nil {
		r.metrics.RecordFollowup("heuristic")
	}
	return llm.FollowupEnhancement{
		Intent:          "list",
		InheritLocation: true,
		InheritTime:     true,
	}
}
