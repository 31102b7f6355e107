package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasDatabasePatterns(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"jelaskan status CC-20250601-00000042", true},
		{"apa itu 628111992172", true},
		{"cara cek 08111992172", true},
		{"apa itu RSRP", false},
		{"bagaimana prosedur eskalasi", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HasDatabasePatterns(tc.query), tc.query)
	}
}

func TestIndexSearchRanksRelevantFirst(t *testing.T) {
	idx, err := NewIndex(SeedGlossary())
	require.NoError(t, err)
	require.Equal(t, len(SeedGlossary()), idx.Count())

	results, err := idx.Search("apa itu RSRP sinyal referensi", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Contains(t, results[0].Title, "RSRP")
	assert.InDelta(t, 0.95, results[0].Similarity, 0.001)
}

func TestIndexSearchNoOverlap(t *testing.T) {
	idx, err := NewIndex(SeedGlossary())
	require.NoError(t, err)

	results, err := idx.Search("xyzzy quux", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankSimilarity(t *testing.T) {
	assert.InDelta(t, 0.95, rankSimilarity(1), 0.01)
	assert.InDelta(t, 0.80, rankSimilarity(5), 0.01)
	assert.InDelta(t, 0.67, rankSimilarity(10), 0.01)
	assert.Zero(t, rankSimilarity(0))
}

func TestTokenizeFoldsAndSplits(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)

	tokens := idx.tokenize("Cara mengatasi RSRP-rendah, cepat!")
	assert.Equal(t, []string{"cara", "mengatasi", "rsrp", "rendah", "cepat"}, tokens)
}

type fakeGenerator struct {
	answer string
	err    error
	called bool
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	f.called = true
	return f.answer, f.err
}

func TestAnswerUsesGenerator(t *testing.T) {
	idx, err := NewIndex(SeedGlossary())
	require.NoError(t, err)

	gen := &fakeGenerator{answer: "RSRP adalah kekuatan sinyal referensi LTE."}
	s := NewService(idx, gen, 0.7)

	got := s.Answer(context.Background(), "apa itu RSRP")
	assert.Equal(t, "RSRP adalah kekuatan sinyal referensi LTE.", got)
	assert.True(t, gen.called)
}

func TestAnswerFallsBackToExcerpts(t *testing.T) {
	idx, err := NewIndex(SeedGlossary())
	require.NoError(t, err)

	s := NewService(idx, &fakeGenerator{err: errors.New("provider down")}, 0.7)

	got := s.Answer(context.Background(), "apa itu RSRP")
	assert.Contains(t, got, "Informasi dari knowledge base")
	assert.Contains(t, got, "RSRP")
	assert.Contains(t, got, "Relevance:")
}

func TestAnswerNoResults(t *testing.T) {
	idx, err := NewIndex(SeedGlossary())
	require.NoError(t, err)

	s := NewService(idx, nil, 0.7)
	got := s.Answer(context.Background(), "xyzzy quux")
	assert.Contains(t, got, "Tidak menemukan informasi yang relevan")
}

func TestAnswerEmptyIndex(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)

	s := NewService(idx, nil, 0.7)
	got := s.Answer(context.Background(), "apa itu RSRP")
	assert.Contains(t, got, "Knowledge base kosong")
}
