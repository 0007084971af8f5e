package ranking

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pythonResume = "Senior Python developer with 5 years of experience building REST APIs. Strong Python and Django skills."
	backendJD    = "We need a backend engineer skilled in Python, Django, PostgreSQL."
	chefResume   = "Head chef with a decade running busy restaurant kitchens."
)

// fakeEmbedder 可控的测试向量化器
type fakeEmbedder struct {
	err   error
	block bool
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []float64{1, 0}, nil
}

type panicEmbedder struct{}

func (panicEmbedder) Name() string { return "panic" }

func (panicEmbedder) Embed(context.Context, string) ([]float64, error) {
	panic("boom")
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRankWithReasoningIdenticalText(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()))
	res := e.RankWithReasoning(context.Background(), pythonResume, pythonResume)

	assert.GreaterOrEqual(t, res.Score, 0.9)
	assert.LessOrEqual(t, res.Score, 1.0)
	assert.True(t, strings.HasPrefix(res.Reasoning, "Excellent semantic match with high conceptual alignment"))
	assert.Contains(t, res.Reasoning, "(hashing embeddings)")
	assert.Contains(t, res.Reasoning, "Strong domain knowledge alignment detected")
	assert.Equal(t, 1.0, res.DetailedScores.Semantic)
	assert.Equal(t, 1.0, res.DetailedScores.TermOverlap)
	assert.NotNil(t, res.Highlights)

	sim := e.ComputeEnhancedSimilarity(context.Background(), pythonResume, pythonResume)
	assert.NotEmpty(t, sim.CommonTerms)
	assert.Contains(t, sim.CommonTerms, "python")
}

func TestRankWithReasoningMismatch(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()))
	sim := e.ComputeEnhancedSimilarity(context.Background(), backendJD, chefResume)

	assert.Equal(t, 0.0, sim.TermOverlapScore)
	assert.NotNil(t, sim.CommonTerms)
	assert.Empty(t, sim.CommonTerms)

	res := e.RankWithReasoning(context.Background(), backendJD, chefResume)
	assert.Contains(t, res.Reasoning, "Limited domain overlap")
	assert.NotContains(t, res.Reasoning, "Key matches")
	assert.Less(t, res.Score, 0.8)
}

func TestRankWithReasoningEmptyInput(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()))
	for _, tc := range []struct{ jd, resume string }{
		{"", pythonResume},
		{pythonResume, ""},
		{"   \n\t", pythonResume},
	} {
		res := e.RankWithReasoning(context.Background(), tc.jd, tc.resume)
		assert.Equal(t, 0.0, res.Score)
		assert.Equal(t, "Unable to process empty text", res.Reasoning)
		assert.NotNil(t, res.Highlights)
		assert.Empty(t, res.Highlights)
	}
}

func TestSemanticSignalFailsClosed(t *testing.T) {
	cases := map[string]Embedder{
		"出错":    &fakeEmbedder{err: errors.New("服务不可用")},
		"超时":    &fakeEmbedder{block: true},
		"panic": panicEmbedder{},
	}
	for name, emb := range cases {
		t.Run(name, func(t *testing.T) {
			e := NewEngine(emb, WithLogger(quietLogger()), WithSignalTimeout(20*time.Millisecond))

			start := time.Now()
			sim := e.ComputeEnhancedSimilarity(context.Background(), pythonResume, pythonResume)
			assert.Less(t, time.Since(start), 5*time.Second)

			assert.Equal(t, 0.0, sim.SemanticScore, "语义信号失败时按0分处理")
			assert.Equal(t, 1.0, sim.TermOverlapScore, "其他信号不受影响")
			assert.Equal(t, 0.0, e.Rank(context.Background(), pythonResume, pythonResume))
		})
	}
}

func TestRankLegacy(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()))
	assert.Equal(t, 1.0, e.Rank(context.Background(), pythonResume, pythonResume))
	assert.Equal(t, 0.0, e.Rank(context.Background(), "", pythonResume))

	fixed := NewEngine(&fakeEmbedder{}, WithLogger(quietLogger()))
	assert.Equal(t, 1.0, fixed.Rank(context.Background(), backendJD, chefResume))
}

func TestRankBatchSortedByScore(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()), WithWorkers(2))
	got := e.RankBatch(context.Background(), pythonResume, []Candidate{
		{ID: "chef", Text: chefResume},
		{ID: "empty", Text: ""},
		{ID: "match", Text: pythonResume},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "match", got[0].ID)
	assert.Equal(t, "empty", got[2].ID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Result.Score, got[i].Result.Score)
	}
}

func TestRankBatchEmpty(t *testing.T) {
	e := NewEngine(nil, WithLogger(quietLogger()))
	assert.Empty(t, e.RankBatch(context.Background(), backendJD, nil))
}

func TestEngineOptions(t *testing.T) {
	dk := NewDomainKnowledge([]DomainEntry{{Term: "golang", Related: []string{"concurrency"}}})
	e := NewEngine(nil,
		WithLogger(quietLogger()),
		WithDomainKnowledge(dk),
		WithSynonyms(NoSynonyms{}),
		WithExpansionLimit(2),
		WithWeights(Weights{Semantic: 1}),
	)
	assert.Equal(t, "golang concurrency", e.Expand("Golang services"))
	assert.Equal(t, []string{"concurrency"}, e.ExtractKeyTerms("concurrency"))
	assert.Equal(t, "hashing", e.EmbedderName())
}
