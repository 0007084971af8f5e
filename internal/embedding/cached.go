package embedding

import (
	"context"
	"log"
	"os"
	"time"

	"resume-ranker-go/internal/ranking"
	"resume-ranker-go/pkg/utils"
)

// VectorCache 向量缓存，由 Redis 实现
type VectorCache interface {
	GetVector(ctx context.Context, key string) ([]float64, bool, error)
	SetVector(ctx context.Context, key string, vector []float64, ttl time.Duration) error
}

// CachedEmbedder 对远程 Embedder 加一层缓存。缓存读写失败只记日志，不影响向量化
type CachedEmbedder struct {
	inner  ranking.Embedder
	cache  VectorCache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedEmbedder 创建带缓存的 Embedder
func NewCachedEmbedder(inner ranking.Embedder, cache VectorCache, ttl time.Duration, logger *log.Logger) *CachedEmbedder {
	if logger == nil {
		logger = log.New(os.Stderr, "[向量缓存] ", log.LstdFlags)
	}
	return &CachedEmbedder{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Name 沿用内部 Embedder 的名称
func (c *CachedEmbedder) Name() string { return c.inner.Name() }

// Embed 先查缓存，未命中再调用内部 Embedder 并回写
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.cacheKey(text)
	if vec, ok, err := c.cache.GetVector(ctx, key); err != nil {
		c.logger.Printf("读取向量缓存失败: %v", err)
	} else if ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetVector(ctx, key, vec, c.ttl); err != nil {
		c.logger.Printf("写入向量缓存失败: %v", err)
	}
	return vec, nil
}

// cacheKey 以 Embedder 名称区分不同模型的向量
func (c *CachedEmbedder) cacheKey(text string) string {
	return c.inner.Name() + ":" + utils.CalculateMD5([]byte(text))
}
