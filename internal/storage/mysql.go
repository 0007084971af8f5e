package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/storage/models"
	"resume-ranker-go/internal/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("resume-ranker-go/storage/mysql")

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

type spanContextKey struct{}

// GormTracingPlugin 是一个GORM插件，用于向OpenTelemetry中添加数据库操作的追踪点
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after())
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}
		if sqlStatement := db.Statement.SQL.String(); sqlStatement != "" {
			opts = append(opts, trace.WithAttributes(attribute.String("db.statement", tracing.SafeSQL(sqlStatement))))
		}

		newCtx, span := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName), opts...)
		db.Statement.Context = context.WithValue(newCtx, spanContextKey{}, span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(spanContextKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", max(db.Statement.RowsAffected, 0)))

		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// 查不到是正常业务分支
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
			span.SetStatus(codes.Ok, "record not found")
		default:
			tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
		}
	}
}

// NewGormTracingPlugin 创建一个新的GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// WithTracer 替换默认 tracer
func (p *GormTracingPlugin) WithTracer(tracer trace.Tracer) *GormTracingPlugin {
	p.tracer = tracer
	return p
}

// WithDisableErrSkip 设置是否禁用错误跳过
func (p *GormTracingPlugin) WithDisableErrSkip(disable bool) *GormTracingPlugin {
	p.disableErrSkip = disable
	return p
}

// MySQL 岗位、投递与排序结果的关系存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	log.Println("成功连接到MySQL并自动迁移数据库结构")
	return m, nil
}

// autoMigrateSchema 迁移表结构时关闭SQL日志
func (m *MySQL) autoMigrateSchema() error {
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
	err := m.db.Session(&gorm.Session{Logger: silentLogger}).AutoMigrate(
		&models.Job{},
		&models.Application{},
		&models.Ranking{},
	)
	if err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// notFound 把 gorm 的未找到错误统一成 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateJob 保存岗位描述
func (m *MySQL) CreateJob(ctx context.Context, job *models.Job) error {
	return m.db.WithContext(ctx).Create(job).Error
}

// GetJob 按ID读取岗位
func (m *MySQL) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

// ListJobs 按创建时间倒序分页列出岗位，返回总数
func (m *MySQL) ListJobs(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	var (
		jobs  []models.Job
		total int64
	)
	db := m.db.WithContext(ctx).Model(&models.Job{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// CreateApplication 保存投递记录
func (m *MySQL) CreateApplication(ctx context.Context, app *models.Application) error {
	return m.db.WithContext(ctx).Create(app).Error
}

// GetApplication 按ID读取投递
func (m *MySQL) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	var app models.Application
	if err := m.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&app).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// ListApplications 列出岗位下的投递，status 为空时不过滤
func (m *MySQL) ListApplications(ctx context.Context, jobID, status string) ([]models.Application, error) {
	var apps []models.Application
	db := m.db.WithContext(ctx).Where("job_id = ?", jobID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// MarkApplicationParsed 写入解析结果并把状态置为已解析，update.ParsedAt 为空时取当前时间
func (m *MySQL) MarkApplicationParsed(ctx context.Context, applicationID string, update *models.Application) error {
	parsedAt := update.ParsedAt
	if parsedAt == nil {
		now := time.Now()
		parsedAt = &now
	}
	res := m.db.WithContext(ctx).Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"candidate_name":  update.CandidateName,
			"candidate_email": update.CandidateEmail,
			"candidate_phone": update.CandidatePhone,
			"profile_json":    update.ProfileJSON,
			"resume_text":     update.ResumeText,
			"status":          update.Status,
			"failure_reason":  "",
			"parser_version":  update.ParserVersion,
			"parsed_at":       parsedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkApplicationFailed 记录失败原因
func (m *MySQL) MarkApplicationFailed(ctx context.Context, applicationID, status, reason string) error {
	return m.db.WithContext(ctx).Model(&models.Application{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
		}).Error
}

// SaveRankings 在一个事务里替换岗位的排序结果，同一投递重复排序时覆盖
func (m *MySQL) SaveRankings(ctx context.Context, jobID string, rankings []models.Ranking) error {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.SaveRankings", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("db.operation", "INSERT_ON_DUPLICATE"),
		attribute.String("db.sql.table", models.Ranking{}.TableName()),
		attribute.String("job.id", jobID),
		attribute.Int("batch.size", len(rankings)),
	)

	if len(rankings) == 0 {
		span.SetStatus(codes.Ok, "no rankings to save")
		return nil
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_id"}, {Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "semantic_score", "tfidf_score", "term_overlap_score",
				"reasoning", "highlights_json", "embedder", "ranked_at",
			}),
		}).CreateInBatches(&rankings, 100).Error
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return fmt.Errorf("保存排序结果失败: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// ListRankings 按分数倒序列出岗位的排序结果
func (m *MySQL) ListRankings(ctx context.Context, jobID string) ([]models.Ranking, error) {
	var rankings []models.Ranking
	err := m.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("score DESC").Order("application_id ASC").
		Find(&rankings).Error
	if err != nil {
		return nil, err
	}
	return rankings, nil
}

// ResetCounts 清空时各表删除的行数
type ResetCounts struct {
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
	Rankings     int64 `json:"rankings"`
}

// ResetAll 清空岗位、投递和排序结果
func (m *MySQL) ResetAll(ctx context.Context) (ResetCounts, error) {
	var counts ResetCounts
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		res := tx.Delete(&models.Ranking{})
		if res.Error != nil {
			return res.Error
		}
		counts.Rankings = res.RowsAffected

		if res = tx.Delete(&models.Application{}); res.Error != nil {
			return res.Error
		}
		counts.Applications = res.RowsAffected

		if res = tx.Delete(&models.Job{}); res.Error != nil {
			return res.Error
		}
		counts.Jobs = res.RowsAffected
		return nil
	})
	return counts, err
}
