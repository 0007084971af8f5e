package storage

import (
	"context"
	"errors"
	"fmt"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/logger"
)

// ErrMySQLRequired MySQL 保存岗位、投递和排序结果，缺失时服务无法工作
var ErrMySQLRequired = errors.New("MySQL 未配置或连接失败")

// Storage 聚合服务用到的存储后端。
//
// 只有 MySQL 是必需的，其余组件缺失时为 nil，由调用方降级：
//   - Redis 缺失：不做投递去重、不缓存向量和排序结果、排序不加锁
//   - MinIO 缺失：无法接收上传，只能使用 /resumes/parse 和 /rank
//   - RabbitMQ 缺失：上传后在请求内同步解析，排序只能同步执行
type Storage struct {
	MySQL    *MySQL
	Redis    *Redis
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
}

// NewStorage 按配置连接各后端。MySQL 失败直接返回错误，可选组件失败只记录警告
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	l := logger.Std("[Storage] ")

	db, err := NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMySQLRequired, err)
	}
	s := &Storage{MySQL: db}

	if cfg.Redis.Address != "" {
		if s.Redis, err = NewRedisAdapter(&cfg.Redis); err != nil {
			l.Printf("警告: Redis 不可用，去重和缓存已关闭: %v", err)
		}
	}

	if cfg.MinIO.Endpoint != "" {
		if s.MinIO, err = NewMinIO(&cfg.MinIO, logger.Std("[MinIOStorage] ")); err != nil {
			l.Printf("警告: MinIO 不可用，简历上传已关闭: %v", err)
		}
	}

	if cfg.RabbitMQ.URL != "" {
		s.RabbitMQ, err = newRabbitMQWithTopology(&cfg.RabbitMQ)
		if err != nil {
			l.Printf("警告: RabbitMQ 不可用，解析将同步执行: %v", err)
		}
	}

	l.Printf("存储初始化完成: mysql=ok redis=%t minio=%t rabbitmq=%t",
		s.Redis != nil, s.MinIO != nil, s.RabbitMQ != nil)
	return s, nil
}

// newRabbitMQWithTopology 连接并声明交换机和队列，声明失败时关闭连接
func newRabbitMQWithTopology(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	mq, err := NewRabbitMQ(cfg)
	if err != nil {
		return nil, err
	}
	if err := mq.EnsureTopology(); err != nil {
		mq.Close()
		return nil, fmt.Errorf("声明消息拓扑失败: %w", err)
	}
	return mq, nil
}

// Close 先停消息队列，再断开 Redis 和 MySQL
func (s *Storage) Close() {
	l := logger.Std("[Storage] ")
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			l.Printf("关闭RabbitMQ连接失败: %v", err)
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			l.Printf("关闭Redis连接失败: %v", err)
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			l.Printf("关闭MySQL连接失败: %v", err)
		}
	}
}
