// Package processor 串联存储、解析和排序，实现岗位、投递与排序的业务流程
package processor

import (
	"context"
	"errors"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/parser"
	"resume-ranker-go/internal/ranking"
	"resume-ranker-go/internal/storage"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/tracing"
)

var tracer = otel.Tracer("processor")

// Service 业务服务。repo、parser 和 engine 必须提供，其余依赖可为 nil
type Service struct {
	repo      Repository
	objects   ObjectStore
	cache     Cache
	publisher Publisher
	parser    *parser.ResumeParser
	engine    *ranking.Engine
	opts      *options
	logger    *zerolog.Logger
}

// NewService 创建业务服务
func NewService(repo Repository, objects ObjectStore, cache Cache, publisher Publisher,
	resumeParser *parser.ResumeParser, engine *ranking.Engine, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Service{
		repo:      repo,
		objects:   objects,
		cache:     cache,
		publisher: publisher,
		parser:    resumeParser,
		engine:    engine,
		opts:      o,
		logger:    o.logger,
	}
}

// Async 是否配置了消息队列
func (s *Service) Async() bool {
	return s.publisher != nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}

// CreateJob 校验并保存岗位描述，返回保存后的记录
func (s *Service) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "Service.CreateJob")
	defer span.End()

	if s.repo == nil {
		return nil, newProcessError("CreateJob", "", ErrStorageNotInit, "")
	}
	if job == nil || strings.TrimSpace(job.Title) == "" {
		err := newProcessError("CreateJob", "", ErrInvalidJob, "job_title 不能为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if job.JobID == "" {
		job.JobID = newID()
	}
	if job.Status == "" {
		job.Status = constants.JobStatusOpen
	}
	if job.Openings <= 0 {
		job.Openings = 1
	}
	span.SetAttributes(attribute.String("job.id", job.JobID))

	if err := s.repo.CreateJob(ctx, job); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, newProcessError("CreateJob", job.JobID, err, "保存岗位失败")
	}
	s.logger.Info().Str("job_id", job.JobID).Str("title", job.Title).Msg("岗位已创建")
	return job, nil
}

// GetJob 读取岗位
func (s *Service) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	if s.repo == nil {
		return nil, newProcessError("GetJob", jobID, ErrStorageNotInit, "")
	}
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newProcessError("GetJob", jobID, ErrJobNotFound, "")
		}
		return nil, newProcessError("GetJob", jobID, err, "读取岗位失败")
	}
	return job, nil
}

// ListJobs 分页列出岗位
func (s *Service) ListJobs(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	if s.repo == nil {
		return nil, 0, newProcessError("ListJobs", "", ErrStorageNotInit, "")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	jobs, total, err := s.repo.ListJobs(ctx, offset, limit)
	if err != nil {
		return nil, 0, newProcessError("ListJobs", "", err, "查询岗位失败")
	}
	return jobs, total, nil
}
