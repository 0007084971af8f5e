package ratelimit

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

// RateLimitedEmbedder 对向量化服务的调用进行限流和重试的代理
type RateLimitedEmbedder struct {
	original    embedding.Embedder
	rateLimiter *TokenBucket
}

// NewRateLimitedEmbedder 创建限流代理，容量为 QPM 的一半，允许一定的突发
func NewRateLimitedEmbedder(original embedding.Embedder, qpm int) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{
		original:    original,
		rateLimiter: NewTokenBucket(qpm, qpm/2),
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimitedEmbedder) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedEmbedder {
	rl.rateLimiter.WithRetryPolicy(waitTime, maxRetries)
	return rl
}

// EmbedStrings 代理 EmbedStrings，增加限流和重试
func (rl *RateLimitedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	var vectors [][]float64
	err := rl.rateLimiter.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = rl.original.EmbedStrings(ctx, texts, opts...)
		return embedErr
	})
	return vectors, err
}
