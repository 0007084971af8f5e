package ranking

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder 文本向量化能力
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	// Name 用于推理说明，例如 "hashing"、"aliyun"
	Name() string
}

// DefaultHashingDimensions 本地哈希向量的默认维度
const DefaultHashingDimensions = 384

// HashingEmbedder 基于特征哈希的本地向量化器，不依赖外部服务。
// 一元词和相邻二元词哈希到固定维度，符号位由哈希高位决定，结果做 L2 归一化。
// 它只衡量词面重合，不理解近义表达；生产环境应使用远程句向量服务。
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder dims <= 0 时使用默认维度
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Name 实现 Embedder
func (h *HashingEmbedder) Name() string { return "hashing" }

// Dimensions 向量维度
func (h *HashingEmbedder) Dimensions() int { return h.dims }

// Embed 实现 Embedder
func (h *HashingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float64, h.dims)
	words := tokenize(text)
	for i, w := range words {
		h.add(vec, w, 1)
		if i > 0 {
			h.add(vec, words[i-1]+" "+w, 0.5)
		}
	}
	normalize(vec)
	return vec, nil
}

func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalize(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
}

// CosineSimilarity 余弦相似度，维度不一致或存在零向量时返回 0
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
