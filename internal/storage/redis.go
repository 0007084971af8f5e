package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/tracing"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("resume-ranker-go/storage/redis")

// checkAndAddScript 原子地检查并加入集合，返回加入前是否已存在
var checkAndAddScript = redis.NewScript(`
	local exists = redis.call('SISMEMBER', KEYS[1], ARGV[1])
	redis.call('SADD', KEYS[1], ARGV[1])
	redis.call('EXPIRE', KEYS[1], ARGV[2])
	return exists
`)

// releaseLockScript 只有持有者才能删除锁
var releaseLockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Redis 向量缓存、投递去重与排序结果缓存
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端并检查连通性
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries: cfg.MaxRetries,
	})

	// 所有Redis命令都会产生span
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return NewRedisWithClient(client, cfg), nil
}

// NewRedisWithClient 包装已有的客户端，不做连通性检查
func NewRedisWithClient(client *redis.Client, cfg *config.RedisConfig) *Redis {
	if cfg == nil {
		cfg = &config.RedisConfig{}
	}
	return &Redis{Client: client, config: cfg}
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// RankingCacheTTL 排序结果缓存时间
func (r *Redis) RankingCacheTTL() time.Duration {
	return config.GetDuration(r.config.RankingCacheTTL, time.Hour)
}

// GetVector 读取缓存的向量，未命中时 found 为 false
func (r *Redis) GetVector(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := r.Client.Get(ctx, fmt.Sprintf(constants.KeyEmbeddingVector, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false, fmt.Errorf("反序列化向量失败: %w", err)
	}
	return vec, true, nil
}

// SetVector 缓存向量
func (r *Redis) SetVector(ctx context.Context, key string, vec []float64, ttl time.Duration) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}
	return r.Client.Set(ctx, fmt.Sprintf(constants.KeyEmbeddingVector, key), raw, ttl).Err()
}

// CheckAndAddFileMD5 检查并把文件MD5加入岗位的去重集合，是一个原子操作
func (r *Redis) CheckAndAddFileMD5(ctx context.Context, jobID, md5Hex string) (exists bool, err error) {
	key := fmt.Sprintf(constants.KeyFileMD5Set, jobID)

	ctx, span := redisTracer.Start(ctx, "Redis.CheckAndAddFileMD5", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "EVAL"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		attribute.String("db.redis.member", md5Hex),
	)

	if r.Client == nil {
		err = fmt.Errorf("redis client is not initialized")
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, err
	}

	expiry := int64(r.GetMD5ExpireDuration().Seconds())
	res, err := checkAndAddScript.Run(ctx, r.Client, []string{key}, md5Hex, expiry).Int64()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, fmt.Errorf("执行原子检查和添加操作失败: %w", err)
	}

	exists = res == 1
	span.SetAttributes(attribute.Bool("already_exists", exists))
	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// RemoveFileMD5 上传失败时回滚去重记录
func (r *Redis) RemoveFileMD5(ctx context.Context, jobID, md5Hex string) error {
	pipe := r.Client.Pipeline()
	pipe.SRem(ctx, fmt.Sprintf(constants.KeyFileMD5Set, jobID), md5Hex)
	pipe.Del(ctx, fmt.Sprintf(constants.KeyFileMD5ToApplicationID, jobID, md5Hex))
	_, err := pipe.Exec(ctx)
	return err
}

// SetFileApplicationID 记录MD5对应的投递ID
func (r *Redis) SetFileApplicationID(ctx context.Context, jobID, md5Hex, applicationID string) error {
	key := fmt.Sprintf(constants.KeyFileMD5ToApplicationID, jobID, md5Hex)
	return r.Client.Set(ctx, key, applicationID, r.GetMD5ExpireDuration()).Err()
}

// GetFileApplicationID 查询MD5对应的投递ID，不存在时返回空串
func (r *Redis) GetFileApplicationID(ctx context.Context, jobID, md5Hex string) (string, error) {
	key := fmt.Sprintf(constants.KeyFileMD5ToApplicationID, jobID, md5Hex)
	id, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

// CacheRankingResult 缓存岗位的排序结果
func (r *Redis) CacheRankingResult(ctx context.Context, jobID string, payload []byte) error {
	return r.Client.Set(ctx, fmt.Sprintf(constants.KeyJobRankingResult, jobID), payload, r.RankingCacheTTL()).Err()
}

// GetCachedRankingResult 读取缓存的排序结果，未命中时返回 nil
func (r *Redis) GetCachedRankingResult(ctx context.Context, jobID string) ([]byte, error) {
	raw, err := r.Client.Get(ctx, fmt.Sprintf(constants.KeyJobRankingResult, jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

// InvalidateRankingResult 岗位有新投递解析完成后清掉旧的排序缓存
func (r *Redis) InvalidateRankingResult(ctx context.Context, jobID string) error {
	return r.Client.Del(ctx, fmt.Sprintf(constants.KeyJobRankingResult, jobID)).Err()
}

// AcquireRankLock 尝试获取岗位排序锁，获取失败时返回空串
func (r *Redis) AcquireRankLock(ctx context.Context, jobID string, expiration time.Duration) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	token, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	ok, err := r.Client.SetNX(ctx, fmt.Sprintf(constants.KeyJobRankLock, jobID), token.String(), expiration).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token.String(), nil
}

// ReleaseRankLock 释放岗位排序锁
func (r *Redis) ReleaseRankLock(ctx context.Context, jobID, token string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	released, err := releaseLockScript.Run(ctx, r.Client, []string{fmt.Sprintf(constants.KeyJobRankLock, jobID)}, token).Int64()
	if err != nil {
		return false, err
	}
	return released == 1, nil
}
