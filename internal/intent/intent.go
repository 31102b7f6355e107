// Package intent classifies incoming queries into workflow intents.
// Deterministic tiers run first; the reasoning model only sees queries
// none of them could decide, and a keyword fallback guarantees an
// answer when the model is down too.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/telcoinsight/keluhan-bot-go/internal/entity"
	"github.com/telcoinsight/keluhan-bot-go/internal/llm"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
	"github.com/telcoinsight/keluhan-bot-go/internal/session"
)

// Intents a query can resolve to.
const (
	IntentComplaintAnalytics = "complaint_analytics"
	IntentLiveLookup         = "live_lookup"
	IntentKnowledge          = "knowledge"
	IntentSystemCapability   = "system_capability"
	IntentOffTopic           = "off_topic"
	IntentFollowup           = "followup"
	IntentSystemPrompt       = "system_prompt"
)

// Result is a classification decision. Enhanced is set only for the
// followup intent.
type Result struct {
	Intent     string
	Confidence float64
	Reasoning  string
	Tier       string
	Enhanced   *entity.EnhancedContext
}

// Reasoner is the model-backed classification fallback. *llm.Client
// implements it; nil disables the tier.
type Reasoner interface {
	Classify(ctx context.Context, query string) (*llm.Classification, error)
}

// A bare phone number is unambiguous: anything containing one is a live
// lookup no matter what else the text says.
var msisdnIntentRe = regexp.MustCompile(`\b(08\d{8,11}|628\d{8,11}|\+628\d{8,11})\b`)

// ticketIDRe keeps how-to phrasing around a concrete ticket id out of
// the knowledge tier.
var ticketIDRe = regexp.MustCompile(`(?i)cc-\d{8}-\d{8}`)

// Injected follow-up generation prompts carry these markers; they must
// never reach a workflow.
var sentinelMarkers = []string{"### Task:", "follow-up questions"}

var knowledgeKeywords = []string{
	"parameter", "cara", "bagaimana", "gimana", "jelaskan", "explain",
	"apa itu", "what is", "pengertian", "definisi", "arti",
	"tutorial", "panduan", "guide", "langkah", "prosedur",
	"troubleshoot", "troubleshooting", "solusi", "solve",
}

var telcoContextKeywords = []string{
	"internet", "wifi", "jaringan", "network", "signal", "sinyal",
	"keluhan", "complaint", "tiket", "ticket", "telkomsel",
	"provider", "operator", "telekomunikasi", "telco",
}

var systemKeywords = []string{
	"siapa kamu", "kamu apa", "apa kemampuan", "bisa apa",
	"sistem sehat", "ada masalah", "status sistem", "hello", "hi",
}

var offTopicKeywords = []string{
	"who is", "who are", "biography", "biografi",
	"sejarah", "history", "politik", "political",
	"nasi", "padang", "makan", "cafe", "restoran", "makanan", "food",
	"film", "movie", "musik", "music", "game", "gaming",
	"basket", "football", "sepak bola", "olahraga", "sports",
	"cuaca", "weather", "hujan", "panas", "dingin",
	"beli", "jual", "shopping", "belanja", "harga", "price",
}

var complaintKeywords = []string{
	"keluhan", "masalah", "complaint", "tiket", "ticket", "berapa", "contoh",
	"internet", "wifi", "jaringan", "summary", "ringkasan", "jakarta", "bandung",
}

// Classifier runs the decision tiers.
type Classifier struct {
	reasoner Reasoner
	resolver *session.Resolver
	metrics  *metrics.Metrics
}

// NewClassifier creates a classifier. reasoner, resolver, and m may all
// be nil; the deterministic tiers carry the load without them.
func NewClassifier(reasoner Reasoner, resolver *session.Resolver, m *metrics.Metrics) *Classifier {
	return &Classifier{reasoner: reasoner, resolver: resolver, metrics: m}
}

// Classify always returns a decision; absence of any signal means
// off-topic with low confidence.
func (c *Classifier) Classify(ctx context.Context, query string, state *session.State) Result {
	result := c.classify(ctx, query, state)
	if c.metrics != nil {
		c.metrics.RecordClassification(result.Intent, result.Tier)
	}
	slog.DebugContext(ctx, "query classified",
		"intent", result.Intent,
		"tier", result.Tier,
		"confidence", result.Confidence)
	return result
}

func (c *Classifier) classify(ctx context.Context, query string, state *session.State) Result {
	for _, marker := range sentinelMarkers {
		if strings.Contains(query, marker) {
			return Result{
				Intent:     IntentSystemPrompt,
				Confidence: 1.0,
				Reasoning:  "injected generation prompt",
				Tier:       "sentinel",
			}
		}
	}

	if msisdnIntentRe.MatchString(query) {
		return Result{
			Intent:     IntentLiveLookup,
			Confidence: 0.98,
			Reasoning:  "msisdn detected in query",
			Tier:       "msisdn",
		}
	}

	lower := strings.ToLower(query)

	if containsAny(lower, knowledgeKeywords) && !ticketIDRe.MatchString(query) {
		return Result{
			Intent:     IntentKnowledge,
			Confidence: 0.95,
			Reasoning:  "knowledge keywords detected",
			Tier:       "keyword",
		}
	}

	if c.resolver != nil && session.IsFollowup(query, state) {
		if enhanced := c.resolver.BuildEnhancedContext(ctx, query, state); enhanced != nil {
			return Result{
				Intent:     IntentFollowup,
				Confidence: 0.9,
				Reasoning:  "continuation trigger with prior history",
				Tier:       "followup",
				Enhanced:   enhanced,
			}
		}
	}

	if c.reasoner != nil {
		classification, err := c.reasoner.Classify(ctx, query)
		if err == nil && classification != nil {
			return Result{
				Intent:     classification.Category,
				Confidence: classification.Confidence,
				Reasoning:  classification.Reasoning,
				Tier:       "llm",
			}
		}
		if err != nil {
			slog.WarnContext(ctx, "reasoning classification failed, using keyword fallback",
				"error", err)
		}
	}

	return fallbackClassify(lower)
}

// fallbackClassify is the ordered keyword-table decision used when the
// model is unavailable. It mirrors the live tiers where they overlap so
// a model outage degrades behavior instead of changing it.
func fallbackClassify(lower string) Result {
	if msisdnIntentRe.MatchString(lower) {
		return Result{Intent: IntentLiveLookup, Confidence: 0.9, Reasoning: "fallback: msisdn detected", Tier: "fallback"}
	}

	if containsAny(lower, knowledgeKeywords) {
		if containsAny(lower, telcoContextKeywords) {
			return Result{Intent: IntentKnowledge, Confidence: 0.9, Reasoning: "fallback: knowledge keywords with telco context", Tier: "fallback"}
		}
		return Result{Intent: IntentOffTopic, Confidence: 0.8, Reasoning: "fallback: knowledge keywords without telco context", Tier: "fallback"}
	}

	if containsAny(lower, systemKeywords) {
		return Result{Intent: IntentSystemCapability, Confidence: 0.95, Reasoning: "fallback: system inquiry keywords", Tier: "fallback"}
	}

	if containsAny(lower, offTopicKeywords) {
		return Result{Intent: IntentOffTopic, Confidence: 0.95, Reasoning: "fallback: off-topic keywords", Tier: "fallback"}
	}

	if containsAny(lower, complaintKeywords) {
		return Result{Intent: IntentComplaintAnalytics, Confidence: 0.8, Reasoning: "fallback: complaint keywords", Tier: "fallback"}
	}

	return Result{Intent: IntentOffTopic, Confidence: 0.7, Reasoning: "fallback: no classification signal", Tier: "fallback"}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
