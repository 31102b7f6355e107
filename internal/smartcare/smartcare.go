package smartcare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/telcoinsight/keluhan-bot-go/internal/msisdn"
	"github.com/telcoinsight/keluhan-bot-go/internal/timeexpr"
)

// HistoryQuerier fetches hourly usage data. *Client implements it.
type HistoryQuerier interface {
	QueryHistory(ctx context.Context, apiMSISDN, startTime, endTime string) (*HistoryResponse, error)
}

// Service runs the live lookup workflow end to end: parse, gate, query,
// narrate. Every failure mode maps to a user-facing message; Execute
// never errors.
type Service struct {
	querier  HistoryQuerier
	resolver *timeexpr.Resolver
	now      func() time.Time
}

// NewService creates the workflow service.
func NewService(querier HistoryQuerier, resolver *timeexpr.Resolver) *Service {
	return &Service{querier: querier, resolver: resolver, now: time.Now}
}

// Execute handles one live-lookup query.
func (s *Service) Execute(ctx context.Context, query string) string {
	candidate := ExtractMSISDN(query)
	if candidate == "" {
		return "❌ Query parsing failed: no valid MSISDN found in query"
	}

	validation := msisdn.Validate(candidate)
	if validation.Err != nil && validation.Normalized == "" {
		return fmt.Sprintf("❌ Query parsing failed: invalid MSISDN %q", candidate)
	}
	display := msisdn.FormatDisplay(validation.Normalized)

	// Carrier gate runs before any upstream call.
	if !validation.Valid || validation.Operator != msisdn.OperatorTelkomsel {
		return NotTelkomselMessage(display)
	}

	now := s.now()
	rng := s.resolver.Resolve(ctx, query, now)
	if err := timeexpr.ValidateRange(rng.Start, rng.End, now); err != nil {
		return fmt.Sprintf("❌ Invalid time range: %v", err)
	}

	apiMSISDN, err := msisdn.NormalizeForAPI(validation.Normalized)
	if err != nil {
		return fmt.Sprintf("❌ Query parsing failed: invalid MSISDN %q", candidate)
	}

	resp, err := s.querier.QueryHistory(ctx, apiMSISDN, rng.StartString(), rng.EndString())
	if err != nil {
		slog.WarnContext(ctx, "smartcare lookup failed, returning maintenance response",
			"error", err)
		return MaintenanceMessage(display)
	}

	info := LookupInfo{
		Display:    display,
		Normalized: validation.Normalized,
		Operator:   string(validation.Operator),
		StartTime:  rng.StartString(),
		EndTime:    rng.EndString(),
		Period:     timeexpr.FormatDuration(rng.End.Sub(rng.Start)),
	}

	if len(resp.History) == 0 {
		return NoDataNarrative(info)
	}

	stats := CalculateStats(resp.History)

	switch DetectSubIntent(query) {
	case SubIntentUsage:
		return UsageNarrative(info, stats)
	case SubIntentHistory, SubIntentChart:
		return HistoryNarrative(info, stats, resp.History)
	case SubIntentDetail:
		return DetailNarrative(info, stats)
	default:
		return CheckNarrative(info, stats)
	}
}
