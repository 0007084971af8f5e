// Package ranking 计算岗位描述与简历之间可解释的相关度：
// 语义向量相似度、扩展文本上的 TF-IDF 相似度、关键词重叠三路信号加权后缩放到 [0,1]，
// 并给出推理说明和匹配片段。
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resume-ranker-go/internal/tracing"
	"resume-ranker-go/internal/types"
)

var tracer = otel.Tracer("ranking")

// DefaultSignalTimeout 单路信号的默认超时
const DefaultSignalTimeout = 10 * time.Second

// ErrSignalPanic 信号计算过程中发生 panic
var ErrSignalPanic = errors.New("信号计算发生panic")

// Engine 排序引擎。构造后只读，可被多个 goroutine 并发使用。
type Engine struct {
	embedder       Embedder
	synonyms       SynonymProvider
	domain         *DomainKnowledge
	expander       *Expander
	weights        Weights
	scale          Scale
	overlapScale   Scale
	tfidf          TFIDFConfig
	signalTimeout  time.Duration
	workers        int
	expansionLimit int
	logger         *log.Logger
}

// Option 引擎选项
type Option func(*Engine)

// WithLogger 设置日志记录器
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWeights 设置三路信号权重
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithScale 设置最终分数、语义分和 TF-IDF 分的缩放参数
func WithScale(s Scale) Option {
	return func(e *Engine) { e.scale = s }
}

// WithSignalTimeout 设置单路信号超时，<=0 时忽略
func WithSignalTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.signalTimeout = d
		}
	}
}

// WithWorkers 设置批量排序的并发度，<=0 时忽略
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithExpansionLimit 设置语义扩展保留的词条数
func WithExpansionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.expansionLimit = n
		}
	}
}

// WithSynonyms 设置同义词来源
func WithSynonyms(p SynonymProvider) Option {
	return func(e *Engine) {
		if p != nil {
			e.synonyms = p
		}
	}
}

// WithDomainKnowledge 设置领域知识表
func WithDomainKnowledge(dk *DomainKnowledge) Option {
	return func(e *Engine) {
		if dk != nil {
			e.domain = dk
		}
	}
}

// WithTFIDFConfig 设置 TF-IDF 参数
func WithTFIDFConfig(c TFIDFConfig) Option {
	return func(e *Engine) { e.tfidf = c }
}

// NewEngine 创建排序引擎，embedder 为 nil 时使用本地哈希向量
func NewEngine(embedder Embedder, opts ...Option) *Engine {
	if embedder == nil {
		embedder = NewHashingEmbedder(0)
	}
	e := &Engine{
		embedder:       embedder,
		weights:        DefaultWeights(),
		scale:          DefaultScale(),
		overlapScale:   Scale{Min: 0, Max: 1, Power: 1.2},
		tfidf:          DefaultTFIDFConfig(),
		signalTimeout:  DefaultSignalTimeout,
		workers:        runtime.NumCPU(),
		expansionLimit: DefaultExpansionLimit,
		logger:         log.New(os.Stderr, "[排序引擎] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.synonyms == nil {
		e.synonyms = DefaultThesaurus()
	}
	if e.domain == nil {
		e.domain = DefaultDomainKnowledge()
	}
	e.expander = NewExpander(e.synonyms, e.domain)
	return e
}

// EmbedderName 当前向量化器名称
func (e *Engine) EmbedderName() string {
	return e.embedder.Name()
}

// runSignal 在独立超时下运行一路信号；超时、出错或 panic 时返回零值并记录告警
func runSignal[T any](ctx context.Context, e *Engine, name string, fn func(context.Context) (T, error)) T {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, e.signalTimeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrSignalPanic, r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{val: v, err: err}
	}()

	span := trace.SpanFromContext(ctx)
	select {
	case out := <-done:
		if out.err != nil {
			e.logger.Printf("信号 %s 计算失败，按0分处理: %v", name, out.err)
			tracing.RecordError(span, out.err, tracing.ErrorTypeInternal)
			return zero
		}
		return out.val
	case <-ctx.Done():
		e.logger.Printf("信号 %s 超时或被取消，按0分处理: %v", name, ctx.Err())
		tracing.RecordError(span, ctx.Err(), tracing.ErrorTypeTimeout)
		return zero
	}
}

// semantic 对原文（不扩展）求向量余弦相似度
func (e *Engine) semantic(ctx context.Context, a, b string) (float64, error) {
	va, err := e.embedder.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("向量化岗位描述失败: %w", err)
	}
	vb, err := e.embedder.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("向量化简历失败: %w", err)
	}
	sim := CosineSimilarity(va, vb)
	if math.IsNaN(sim) {
		return 0, nil
	}
	return sim, nil
}

// SemanticSimilarity 语义相似度，失败时为 0
func (e *Engine) SemanticSimilarity(ctx context.Context, a, b string) float64 {
	return runSignal(ctx, e, "semantic", func(ctx context.Context) (float64, error) {
		return e.semantic(ctx, a, b)
	})
}

// TFIDFSimilarity 以两篇文本为语料拟合 TF-IDF 后的余弦相似度
func (e *Engine) TFIDFSimilarity(a, b string) float64 {
	return tfidfCosine(a, b, e.tfidf)
}

// Expand 语义扩展
func (e *Engine) Expand(text string) string {
	return e.expander.Expand(text, e.expansionLimit)
}

// ExtractKeyTerms 使用引擎的领域知识表抽取关键词
func (e *Engine) ExtractKeyTerms(text string) []string {
	return ExtractKeyTerms(text, e.domain)
}

type overlapSignal struct {
	score  float64
	common []string
}

// ComputeEnhancedSimilarity 并发计算三路信号并组合缩放
func (e *Engine) ComputeEnhancedSimilarity(ctx context.Context, jd, resume string) types.SimilarityResult {
	ctx, span := tracer.Start(ctx, "ComputeEnhancedSimilarity",
		trace.WithAttributes(
			attribute.Int("jd.length", len(jd)),
			attribute.Int("resume.length", len(resume)),
			attribute.String("embedder", e.embedder.Name()),
		))
	defer span.End()

	var semanticScore, tfidfScore float64
	overlap := overlapSignal{common: []string{}}

	var g errgroup.Group
	g.Go(func() error {
		semanticScore = e.SemanticSimilarity(ctx, jd, resume)
		return nil
	})
	g.Go(func() error {
		tfidfScore = runSignal(ctx, e, "tfidf", func(context.Context) (float64, error) {
			return e.TFIDFSimilarity(e.Expand(jd), e.Expand(resume)), nil
		})
		return nil
	})
	g.Go(func() error {
		overlap = runSignal(ctx, e, "term_overlap", func(context.Context) (overlapSignal, error) {
			jdTerms := e.ExtractKeyTerms(jd)
			resumeTerms := e.ExtractKeyTerms(resume)
			common := commonTerms(jdTerms, resumeTerms)
			return overlapSignal{score: termOverlap(jdTerms, resumeTerms, common), common: common}, nil
		})
		if overlap.common == nil {
			overlap.common = []string{}
		}
		return nil
	})
	_ = g.Wait()

	raw := e.weights.Combine(semanticScore, tfidfScore, overlap.score)
	result := types.SimilarityResult{
		FinalScore:       e.scale.Apply(raw),
		SemanticScore:    e.scale.Apply(semanticScore),
		TFIDFScore:       e.scale.Apply(tfidfScore),
		TermOverlapScore: e.overlapScale.Apply(overlap.score),
		CommonTerms:      overlap.common,
	}
	span.SetAttributes(
		attribute.Float64("score.raw", raw),
		attribute.Float64("score.final", result.FinalScore),
		attribute.Int("common_terms", len(result.CommonTerms)),
	)
	return result
}

// FindMatchingHighlights 使用引擎的领域知识表生成匹配片段
func (e *Engine) FindMatchingHighlights(jd, resume string) []types.Highlight {
	return FindMatchingHighlights(jd, resume, e.domain)
}

// GenerateReasoning 使用当前向量化器名称生成推理说明
func (e *Engine) GenerateReasoning(result types.SimilarityResult) string {
	return GenerateReasoning(result, e.embedder.Name())
}

// RankWithReasoning 计算分数、推理说明、匹配片段和分项分数。
// 任一文本为空（或只含空白）时返回 0 分。
func (e *Engine) RankWithReasoning(ctx context.Context, jd, resume string) types.RankingResult {
	if strings.TrimSpace(jd) == "" || strings.TrimSpace(resume) == "" {
		return types.RankingResult{
			Score:      0,
			Reasoning:  emptyTextReasoning,
			Highlights: []types.Highlight{},
		}
	}

	sim := e.ComputeEnhancedSimilarity(ctx, jd, resume)
	return types.RankingResult{
		Score:      sim.FinalScore,
		Reasoning:  e.GenerateReasoning(sim),
		Highlights: e.FindMatchingHighlights(jd, resume),
		DetailedScores: types.DetailedScores{
			Semantic:    sim.SemanticScore,
			TFIDF:       sim.TFIDFScore,
			TermOverlap: sim.TermOverlapScore,
		},
	}
}

// Rank 兼容旧接口：仅返回原文向量余弦相似度，保留4位小数
func (e *Engine) Rank(ctx context.Context, jd, resume string) float64 {
	if strings.TrimSpace(jd) == "" || strings.TrimSpace(resume) == "" {
		return 0
	}
	return round4(e.SemanticSimilarity(ctx, jd, resume))
}

// Candidate 批量排序的输入
type Candidate struct {
	ID   string
	Text string
}

// RankedCandidate 批量排序的输出
type RankedCandidate struct {
	ID     string              `json:"id"`
	Result types.RankingResult `json:"result"`
}

// RankBatch 对同一岗位并发排序多份简历，按分数降序返回（同分保持输入顺序）
func (e *Engine) RankBatch(ctx context.Context, jd string, candidates []Candidate) []RankedCandidate {
	ctx, span := tracer.Start(ctx, "RankBatch",
		trace.WithAttributes(attribute.Int("candidates", len(candidates))))
	defer span.End()

	ranked := make([]RankedCandidate, len(candidates))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, c := range candidates {
		g.Go(func() error {
			ranked[i] = RankedCandidate{ID: c.ID, Result: e.RankWithReasoning(ctx, jd, c.Text)}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked
}
