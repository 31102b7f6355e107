// High-level operations built on the fallback client. Every operation is
// best-effort: callers keep a deterministic local fallback for each one.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Classification categories returned by Classify.
const (
	CategoryComplaintAnalytics = "complaint_analytics"
	CategoryLiveLookup         = "live_lookup"
	CategoryKnowledge          = "knowledge"
	CategorySystemCapability   = "system_capability"
	CategoryOffTopic           = "off_topic"
)

// Defaults applied when the model reply is missing labeled lines.
const (
	defaultConfidence = 0.7
	defaultCategory   = CategoryOffTopic
)

// Classification is the parsed result of an ambiguous-intent call.
type Classification struct {
	Category   string
	Confidence float64
	Reasoning  string
}

// FollowupEnhancement is the parsed inheritance decision for a follow-up
// query.
type FollowupEnhancement struct {
	Intent          string
	InheritLocation bool
	InheritTime     bool
	Filters         []string
}

// Classify asks the model to categorize an ambiguous query. The reply is
// parsed leniently: a missing category defaults to off_topic and a missing
// or malformed confidence defaults to 0.7.
func (c *Client) Classify(ctx context.Context, query string) (*Classification, error) {
	raw, err := c.complete(ctx, "classify", classifySystemPrompt, query)
	if err != nil {
		return nil, err
	}

	labels := parseLabeledLines(raw)

	result := &Classification{
		Category:   defaultCategory,
		Confidence: defaultConfidence,
		Reasoning:  labels["REASONING"],
	}

	if cat := normalizeCategory(labels["CLASSIFICATION"]); cat != "" {
		result.Category = cat
	}
	if conf, err := strconv.ParseFloat(strings.TrimSpace(labels["CONFIDENCE"]), 64); err == nil && conf >= 0 && conf <= 1 {
		result.Confidence = conf
	}

	return result, nil
}

// EnhanceFollowup asks the model which context a follow-up query inherits
// from the previous interaction.
func (c *Client) EnhanceFollowup(ctx context.Context, query, previousQuery, previousResponse string) (*FollowupEnhancement, error) {
	user := fmt.Sprintf("Previous question: %s\nPrevious answer: %s\nFollow-up question: %s",
		previousQuery, previousResponse, query)

	raw, err := c.complete(ctx, "followup", followupSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	labels := parseLabeledLines(raw)

	result := &FollowupEnhancement{
		Intent:          "list",
		InheritLocation: parseBool(labels["INHERIT_LOCATION"]),
		InheritTime:     parseBool(labels["INHERIT_TIME"]),
		Filters:         parseFilters(labels["FILTERS"]),
	}

	switch intent := strings.ToLower(strings.TrimSpace(labels["INTENT"])); intent {
	case "summary", "list", "detail", "count":
		result.Intent = intent
	}

	return result, nil
}

// ImproveText rewrites an agent-written complaint description for clarity.
func (c *Client) ImproveText(ctx context.Context, text string) (string, error) {
	raw, err := c.complete(ctx, "improve", improveSystemPrompt, text)
	if err != nil {
		return "", err
	}

	improved := strings.TrimSpace(raw)
	if improved == "" {
		return "", fmt.Errorf("empty improvement result")
	}
	return improved, nil
}

// Generate produces free-form prose for a custom prompt pair.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, "narrative", system, user)
}

// ExtractDates parses a date range out of text the pattern table could not
// handle. Implements the time resolver's DateExtractor contract: ok=false
// with a nil error means the model confidently found no date.
func (c *Client) ExtractDates(ctx context.Context, text string) (start, end time.Time, ok bool, err error) {
	raw, err := c.complete(ctx, "dates", extractDatesSystemPrompt, text)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	reply := strings.TrimSpace(raw)
	if strings.EqualFold(reply, "NONE") {
		return time.Time{}, time.Time{}, false, nil
	}

	parts := strings.SplitN(reply, ",", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false, fmt.Errorf("unexpected date reply: %q", reply)
	}

	const layout = "2006-01-02 15:04"
	start, err = time.ParseInLocation(layout, strings.TrimSpace(parts[0]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("bad start date: %w", err)
	}
	end, err = time.ParseInLocation(layout, strings.TrimSpace(parts[1]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("bad end date: %w", err)
	}

	return start, end, true, nil
}

// parseLabeledLines splits a reply into LABEL -> value pairs. Unlabeled
// lines are ignored so the parser survives models that add prose around
// the requested format.
func parseLabeledLines(raw string) map[string]string {
	labels := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		// Labels are single upper-case words, possibly underscored
		key = strings.ToUpper(strings.TrimSpace(key))
		if !isLabelKey(key) {
			continue
		}
		labels[key] = strings.TrimSpace(value)
	}
	return labels
}

func isLabelKey(key string) bool {
	for _, r := range key {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return key != ""
}

func normalizeCategory(raw string) string {
	cat := strings.ToLower(strings.TrimSpace(raw))
	cat = strings.ReplaceAll(cat, "-", "_")
	cat = strings.ReplaceAll(cat, " ", "_")
	switch cat {
	case CategoryComplaintAnalytics, CategoryLiveLookup, CategoryKnowledge,
		CategorySystemCapability, CategoryOffTopic:
		return cat
	}
	return ""
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "ya", "1":
		return true
	}
	return false
}

func parseFilters(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") || raw == "-" {
		return nil
	}

	var filters []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			filters = append(filters, f)
		}
	}
	return filters
}
