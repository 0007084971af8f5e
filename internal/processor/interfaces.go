package processor

import (
	"context"
	"time"

	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/storage/models"
)

// Repository 岗位、投递和排序结果的持久化
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context, offset, limit int) ([]models.Job, int64, error)
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, applicationID string) (*models.Application, error)
	ListApplications(ctx context.Context, jobID, status string) ([]models.Application, error)
	MarkApplicationParsed(ctx context.Context, applicationID string, update *models.Application) error
	MarkApplicationFailed(ctx context.Context, applicationID, status, reason string) error
	SaveRankings(ctx context.Context, jobID string, rankings []models.Ranking) error
	ListRankings(ctx context.Context, jobID string) ([]models.Ranking, error)
}

// Cache 上传去重、排序结果缓存和排序锁。为 nil 时这些功能关闭
type Cache interface {
	CheckAndAddFileMD5(ctx context.Context, jobID, md5Hex string) (bool, error)
	RemoveFileMD5(ctx context.Context, jobID, md5Hex string) error
	SetFileApplicationID(ctx context.Context, jobID, md5Hex, applicationID string) error
	CacheRankingResult(ctx context.Context, jobID string, payload []byte) error
	GetCachedRankingResult(ctx context.Context, jobID string) ([]byte, error)
	InvalidateRankingResult(ctx context.Context, jobID string) error
	AcquireRankLock(ctx context.Context, jobID string, expiration time.Duration) (string, error)
	ReleaseRankLock(ctx context.Context, jobID, token string) (bool, error)
}

// ObjectStore 原始简历文件存储
type ObjectStore = storage.ObjectStorage

// Publisher 发布异步任务消息。为 nil 时解析和排序在请求内同步执行
type Publisher interface {
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error
}

var (
	_ Repository = (*storage.MySQL)(nil)
	_ Cache      = (*storage.Redis)(nil)
	_ Publisher  = (*storage.RabbitMQ)(nil)
)
