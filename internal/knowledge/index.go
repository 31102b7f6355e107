// Package knowledge answers how-to and parameter questions from a
// keyword-ranked glossary. Retrieval is BM25 over seeded documents;
// queries carrying ticket ids or phone numbers never belong here.
package knowledge

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/iwilltry42/bm25-go/bm25"
	"golang.org/x/text/cases"
)

// SearchResult is a ranked glossary hit. Similarity derives from rank
// position, not raw BM25 score, so it stays comparable across queries.
type SearchResult struct {
	Title      string
	Content    string
	Similarity float64
}

// Index is a BM25 index over the glossary.
type Index struct {
	mu     sync.RWMutex
	okapi  *bm25.BM25Okapi
	docs   []Document
	folder cases.Caser
}

// NewIndex builds the index from the given documents.
func NewIndex(docs []Document) (*Index, error) {
	idx := &Index{docs: docs, folder: cases.Fold()}

	if len(docs) == 0 {
		return idx, nil
	}

	corpus := make([]string, len(docs))
	for i, doc := range docs {
		corpus[i] = doc.Title + " " + doc.Content
	}

	okapi, err := bm25.NewBM25Okapi(corpus, idx.tokenize, 1.5, 0.75, nil)
	if err != nil {
		return nil, fmt.Errorf("build knowledge index: %w", err)
	}
	idx.okapi = okapi
	return idx, nil
}

// Count returns the number of indexed documents.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search returns up to topN documents with term overlap, best first.
func (idx *Index) Search(query string, topN int) ([]SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.okapi == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	tokens := idx.tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("knowledge scoring failed: %w", err)
	}

	type scored struct {
		docID int
		score float64
	}
	var hits []scored
	for docID, score := range scores {
		if score > 0 {
			hits = append(hits, scored{docID: docID, score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].docID < hits[j].docID
	})

	if topN > 0 && len(hits) > topN {
		hits = hits[:topN]
	}

	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{
			Title:      idx.docs[hit.docID].Title,
			Content:    idx.docs[hit.docID].Content,
			Similarity: rankSimilarity(i + 1),
		}
	}
	return results, nil
}

// rankSimilarity maps rank position to a 0-1 similarity. BM25 scores are
// unbounded and query-dependent, so rank is the stable proxy:
// rank 1 -> 0.95, rank 5 -> 0.80, rank 10 -> 0.67.
func rankSimilarity(rank int) float64 {
	if rank <= 0 {
		return 0
	}
	return 1.0 / (1.0 + 0.05*float64(rank))
}

// tokenize case-folds and splits on anything that is not a letter or
// digit. Indonesian and English both segment on whitespace, so no
// n-gram handling is needed.
func (idx *Index) tokenize(text string) []string {
	folded := idx.folder.String(text)

	var tokens []string
	var current strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
