// Package handler HTTP 请求处理，把请求参数转换成业务服务调用
package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"

	"resume-ranker-go/internal/logger"
	"resume-ranker-go/internal/parser"
	"resume-ranker-go/internal/processor"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/tracing"
)

// Service 处理器依赖的业务接口，由 processor.Service 实现
type Service interface {
	Async() bool
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context, offset, limit int) ([]models.Job, int64, error)
	SubmitApplication(ctx context.Context, jobID, filename string, reader io.Reader, size int64) (*models.Application, error)
	ListApplications(ctx context.Context, jobID, status string) ([]models.Application, error)
	GetApplication(ctx context.Context, applicationID string) (*models.Application, error)
	ParsePreview(ctx context.Context, filename string, reader io.Reader, size int64) (*parser.Result, error)
	RankJob(ctx context.Context, jobID string) ([]processor.RankedApplication, error)
	RequestRanking(ctx context.Context, jobID string) (string, error)
	ListRankings(ctx context.Context, jobID string) ([]processor.RankedApplication, error)
	RankText(ctx context.Context, jd, resume string) processor.TextRanking
}

var _ Service = (*processor.Service)(nil)

// HealthCheck 健康检查项，返回 nil 表示正常
type HealthCheck func(ctx context.Context) error

// Handler 所有 /api/v1 路由的处理器
type Handler struct {
	svc    Service
	checks map[string]HealthCheck
	logger *log.Logger
}

// Option Handler 选项
type Option func(*Handler)

// WithLogger 设置日志
func WithLogger(l *log.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithHealthCheck 注册一个依赖的健康检查
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) { h.checks[name] = check }
}

// New 创建处理器
func New(svc Service, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		checks: make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Std("[API] ")
	}
	return h
}

// Health GET /health
func (h *Handler) Health(ctx context.Context, c *app.RequestContext) {
	status := consts.StatusOK
	components := utils.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = consts.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}
	overall := "ok"
	if status != consts.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, utils.H{"status": overall, "components": components})
}

// statusOf 业务错误到HTTP状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, processor.ErrJobNotFound), errors.Is(err, processor.ErrApplicationNotFound):
		return consts.StatusNotFound
	case errors.Is(err, processor.ErrDuplicateResume), errors.Is(err, processor.ErrRankingInProgress):
		return consts.StatusConflict
	case errors.Is(err, processor.ErrUnsupportedFile):
		return consts.StatusUnsupportedMediaType
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge
	case errors.Is(err, processor.ErrEmptyFile), errors.Is(err, processor.ErrInvalidJob):
		return consts.StatusBadRequest
	case errors.Is(err, processor.ErrStorageNotInit):
		return consts.StatusServiceUnavailable
	default:
		return consts.StatusInternalServerError
	}
}

// fail 写错误响应。5xx 记录日志，4xx 只返回给调用方
func (h *Handler) fail(ctx context.Context, c *app.RequestContext, err error) {
	status := statusOf(err)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status)
	if status >= consts.StatusInternalServerError {
		h.logger.Printf("%s %s 失败: %v", c.Method(), c.Path(), err)
	}
	c.JSON(status, utils.H{"error": err.Error()})
}

func badRequest(c *app.RequestContext, msg string) {
	c.JSON(consts.StatusBadRequest, utils.H{"error": msg})
}

func queryInt(c *app.RequestContext, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
