package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const searchTopN = 3

// Patterns that mark a query as a data lookup rather than a how-to
// question. These must route to the complaint pipeline instead.
var databasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cc-\d{8}-\d{8}`),
	regexp.MustCompile(`\b628\d{8,12}\b`),
	regexp.MustCompile(`\b08\d{8,12}\b`),
}

// HasDatabasePatterns reports whether the query carries a ticket id or
// phone number. Callers route such queries away from the knowledge base.
func HasDatabasePatterns(query string) bool {
	for _, re := range databasePatterns {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

// AnswerGenerator composes prose from retrieved documents. *llm.Client
// implements it via Generate; nil falls back to verbatim excerpts.
type AnswerGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Service answers knowledge queries from the glossary index.
type Service struct {
	index     *Index
	generator AnswerGenerator
	floor     float64
}

// NewService creates the knowledge service. generator may be nil; a
// floor <= 0 disables relevance filtering.
func NewService(index *Index, generator AnswerGenerator, floor float64) *Service {
	return &Service{index: index, generator: generator, floor: floor}
}

const answerSystemPrompt = `You are a telecom network support assistant. Answer the question in Indonesian using ONLY the provided reference documents. Be concise and practical. If the documents do not fully answer the question, say what is known and suggest contacting technical support for the rest.`

// Answer resolves one knowledge query to a user-facing response. Every
// outcome is a message; Answer never errors.
func (s *Service) Answer(ctx context.Context, query string) string {
	if s.index == nil || s.index.Count() == 0 {
		return "📚 **Knowledge base kosong.** Silakan hubungi administrator untuk memuat dokumen referensi."
	}

	results, err := s.index.Search(query, searchTopN)
	if err != nil {
		slog.WarnContext(ctx, "knowledge search failed", "error", err)
		results = nil
	}

	if len(results) == 0 {
		return fmt.Sprintf("🔍 **Tidak menemukan informasi yang relevan untuk:** %q\n\n"+
			"Silakan coba dengan kata kunci yang berbeda atau hubungi supervisor untuk informasi lebih lanjut.", query)
	}

	relevant := results[:0:0]
	for _, r := range results {
		if r.Similarity >= s.floor {
			relevant = append(relevant, r)
		}
	}

	if len(relevant) == 0 {
		return fmt.Sprintf("🔍 **Informasi ditemukan tapi kurang relevan untuk:** %q\n\n"+
			"Coba gunakan kata kunci yang lebih spesifik atau hubungi technical support.", query)
	}

	return s.compose(ctx, query, relevant)
}

// compose asks the generator to write the answer from the retrieved
// excerpts; when unavailable the excerpts themselves are the answer.
func (s *Service) compose(ctx context.Context, query string, docs []SearchResult) string {
	excerpts := formatExcerpts(docs)

	if s.generator != nil {
		user := fmt.Sprintf("Question: %s\n\nReference documents:\n%s", query, excerpts)
		if answer, err := s.generator.Generate(ctx, answerSystemPrompt, user); err == nil && strings.TrimSpace(answer) != "" {
			return answer
		} else if err != nil {
			slog.WarnContext(ctx, "knowledge answer generation failed, returning excerpts",
				"error", err)
		}
	}

	return "📚 **Informasi dari knowledge base:**\n\n" + excerpts
}

func formatExcerpts(docs []SearchResult) string {
	var parts []string
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("**Dokumen %d: %s** (Relevance: %.2f)\n%s",
			i+1, doc.Title, doc.Similarity, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}
