package embedding

import (
	"context"
	"fmt"
	"log"
	"time"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/ranking"
	"resume-ranker-go/pkg/ratelimit"
)

// New 按配置创建排序引擎使用的 Embedder。
// 远程服务经过限流重试代理；cache 非 nil 且配置了 cache_ttl 时再包一层缓存。
func New(ctx context.Context, cfg config.EmbeddingConfig, cache VectorCache, logger *log.Logger) (ranking.Embedder, error) {
	var remote interface {
		Model() string
	}
	var limited *ratelimit.RateLimitedEmbedder

	timeout := config.GetDuration(cfg.Timeout, 30*time.Second)
	switch cfg.Provider {
	case "", config.ProviderHashing:
		return ranking.NewHashingEmbedder(cfg.Dimensions), nil
	case config.ProviderAliyun:
		a, err := NewAliyunEmbedder(cfg.APIKey,
			WithAliyunModel(cfg.Model),
			WithAliyunDimensions(cfg.Dimensions),
			WithAliyunBaseURL(cfg.BaseURL),
			WithAliyunLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		a.httpClient.Timeout = timeout
		remote = a
		limited = ratelimit.NewRateLimitedEmbedder(a, cfg.QPM)
	case config.ProviderGemini:
		g, err := NewGeminiEmbedder(ctx, cfg.APIKey,
			WithGeminiModel(cfg.Model),
			WithGeminiDimensions(cfg.Dimensions),
			WithGeminiLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		remote = g
		limited = ratelimit.NewRateLimitedEmbedder(g, cfg.QPM)
	default:
		return nil, fmt.Errorf("未知的向量化服务 %q: %w", cfg.Provider, ErrEmbedderUnavailable)
	}

	limited.WithRetryPolicy(time.Second, cfg.MaxRetries)
	var emb ranking.Embedder = NewEinoEmbedder(limited, cfg.Provider+":"+remote.Model())

	if ttl := config.GetDuration(cfg.CacheTTL, 0); cache != nil && ttl > 0 {
		emb = NewCachedEmbedder(emb, cache, ttl, logger)
	}
	return emb, nil
}
