package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket 基于 x/time/rate 的令牌桶限流器，附带指数退避重试
type TokenBucket struct {
	limiter       *rate.Limiter
	retryWaitTime time.Duration // 首次重试等待时间，之后每次翻倍
	maxRetries    int           // 最大重试次数
}

// NewTokenBucket 创建限流器。qpm<=0 表示不限流；capacity<=0 时取 QPM 的一半
func NewTokenBucket(qpm int, capacity int) *TokenBucket {
	limit := rate.Inf
	if qpm > 0 {
		limit = rate.Limit(float64(qpm) / 60.0)
	}
	if capacity <= 0 {
		capacity = max(qpm/2, 1)
	}
	return &TokenBucket{
		limiter:       rate.NewLimiter(limit, capacity),
		retryWaitTime: 1 * time.Second,
		maxRetries:    3,
	}
}

// WithRetryPolicy 设置重试策略
func (tb *TokenBucket) WithRetryPolicy(waitTime time.Duration, maxRetries int) *TokenBucket {
	if waitTime > 0 {
		tb.retryWaitTime = waitTime
	}
	if maxRetries >= 0 {
		tb.maxRetries = maxRetries
	}
	return tb
}

// Allow 不等待，判断当前是否有令牌
func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

// Wait 阻塞直到拿到令牌或 ctx 结束
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

// RetryWithBackoff 每次调用前先取令牌；可重试错误按 retryWaitTime*2^n 退避
func (tb *TokenBucket) RetryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	for retry := 0; retry <= tb.maxRetries; retry++ {
		if err = tb.Wait(ctx); err != nil {
			return err
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !isRetryableError(err) || retry >= tb.maxRetries {
			return err
		}

		backoff := tb.retryWaitTime * time.Duration(1<<uint(retry))
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// ErrRetryable 包装后的错误一定会被重试
var ErrRetryable = errors.New("retryable")

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRetryable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return contains(err.Error(), []string{
		"timeout",
		"deadline exceeded",
		"connection reset",
		"EOF",
		"connection refused",
		"429",
		"Too Many Requests",
		"rate limit",
		"no such host",
		"503",
		"服务器繁忙",
		"请求超过限额",
		"QPS限制",
	})
}

// contains 检查字符串是否包含列表中的任何一个子串
func contains(s string, substrs []string) bool {
	for _, substr := range substrs {
		if substr != "" && strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
