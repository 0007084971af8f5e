package storage

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/storage/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newDryRunDB 不连接数据库，只生成SQL，用于验证追踪回调
func newDryRunDB(t *testing.T) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:@tcp(127.0.0.1:3306)/resume_ranker?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, db.Use(NewGormTracingPlugin("resume_ranker").WithTracer(tp.Tracer("test"))))
	return db, recorder
}

func TestGormTracingPlugin(t *testing.T) {
	db, recorder := newDryRunDB(t)

	require.NoError(t, db.Create(&models.Job{JobID: "job-1", Title: "Go Engineer"}).Error)
	var apps []models.Application
	require.NoError(t, db.Where("job_id = ?", "job-1").Find(&apps).Error)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "CREATE jobs", spans[0].Name())
	assert.Equal(t, "SELECT applications", spans[1].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("db.name", "resume_ranker"))
	assert.Contains(t, spans[1].Attributes(), attribute.String("db.operation", "SELECT"))
}

func TestJobText(t *testing.T) {
	job := models.Job{
		Title:            "Backend Engineer",
		Company:          "Acme",
		Location:         "  ",
		ExperienceSkills: "3+ years of Go, PostgreSQL",
		NiceToHaveSkills: "Kubernetes",
		GithubRequired:   true,
	}
	want := "Backend Engineer\n" +
		"Company: Acme\n" +
		"Experience and Skills: 3+ years of Go, PostgreSQL\n" +
		"Nice to Have Skills: Kubernetes\n" +
		"GitHub profile required"
	assert.Equal(t, want, job.Text(), "空白字段不应输出")
	assert.Equal(t, "", models.Job{}.Text())
}

func TestResumeObjectKey(t *testing.T) {
	assert.Equal(t, "resume/j1/a1/original.pdf", ResumeObjectKey("j1", "a1", ".PDF"))
	assert.Equal(t, "application/pdf", ContentType(".pdf"))
	assert.Equal(t, "text/plain", ContentType(".TXT"))
	assert.Equal(t, "application/octet-stream", ContentType(".exe"))
}

func TestMessages(t *testing.T) {
	msg := NewResumeUploadedMessage("a1", "j1", "cv.pdf", "resume/j1/a1/original.pdf", "abc")
	assert.NotEmpty(t, msg.MessageID)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "a1", fields["application_id"])
	assert.Equal(t, "resume/j1/a1/original.pdf", fields["object_key"])

	rank := NewJobRankRequestedMessage("j1")
	assert.NotEqual(t, msg.MessageID, rank.MessageID)
	assert.Equal(t, "j1", rank.JobID)
}

func TestAMQPHeaderCarrier(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := amqp.Table{}
	prop := propagation.TraceContext{}
	prop.Inject(ctx, amqpHeaderCarrier(headers))
	require.Contains(t, headers, "traceparent")

	extracted := prop.Extract(context.Background(), amqpHeaderCarrier(headers))
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

// TestRedisIntegration 需要真实的 Redis，设置 REDIS_ADDR 后运行
func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR 未设置，跳过 Redis 集成测试")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedisWithClient(client, &config.RedisConfig{Address: addr, MD5RecordExpireDays: 1})
	defer r.Close()

	jobID := "test-job-" + time.Now().Format("150405.000000")
	defer r.RemoveFileMD5(ctx, jobID, "md5-a")

	exists, err := r.CheckAndAddFileMD5(ctx, jobID, "md5-a")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = r.CheckAndAddFileMD5(ctx, jobID, "md5-a")
	require.NoError(t, err)
	assert.True(t, exists, "第二次应命中去重")

	require.NoError(t, r.SetVector(ctx, jobID, []float64{0.5, 1}, time.Minute))
	vec, found, err := r.GetVector(ctx, jobID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []float64{0.5, 1}, vec)

	_, found, err = r.GetVector(ctx, jobID+"-missing")
	require.NoError(t, err)
	assert.False(t, found)

	token, err := r.AcquireRankLock(ctx, jobID, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	second, err := r.AcquireRankLock(ctx, jobID, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, second, "锁被占用时不能重复获取")
	released, err := r.ReleaseRankLock(ctx, jobID, token)
	require.NoError(t, err)
	assert.True(t, released)
}
