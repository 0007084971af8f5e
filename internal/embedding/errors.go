// Package embedding 远程向量化服务（阿里云、Gemini）、Redis 向量缓存，
// 以及把它们组装成排序引擎 Embedder 的工厂
package embedding

import (
	"errors"

	"resume-ranker-go/pkg/ratelimit"
)

// ErrEmbedderUnavailable 配置的向量化服务无法创建
var ErrEmbedderUnavailable = errors.New("embedder unavailable")

// errRetryable 交给限流器的重试判断
var errRetryable = ratelimit.ErrRetryable
