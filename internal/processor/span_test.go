package processor

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	recorderOnce sync.Once
	recorder     *tracetest.SpanRecorder
)

// spanRecorder 全局 provider 只能委托一次，所有用例共用同一个记录器
func spanRecorder() *tracetest.SpanRecorder {
	recorderOnce.Do(func() {
		recorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	})
	return recorder
}

// findSpan 按名称和属性查找已结束的 span
func findSpan(t *testing.T, name string, key attribute.Key, value string) map[attribute.Key]string {
	t.Helper()
	for _, s := range spanRecorder().Ended() {
		if s.Name() != name {
			continue
		}
		attrs := make(map[attribute.Key]string, len(s.Attributes()))
		for _, kv := range s.Attributes() {
			attrs[kv.Key] = kv.Value.Emit()
		}
		if attrs[key] == value {
			return attrs
		}
	}
	require.Failf(t, "span 未找到", "%s %s=%s", name, key, value)
	return nil
}

func TestParseSpanMasksCandidate(t *testing.T) {
	spanRecorder()
	f := newFixture(t, false)
	job := f.createJob(t)

	app, err := f.submit(t, job.JobID, "jane.txt", goodResume)
	require.NoError(t, err)

	attrs := findSpan(t, "Service.parseAndStore", "application.id", app.ApplicationID)
	assert.Equal(t, "ja****************om", attrs["candidate.email"])
	assert.Equal(t, "Ja****oe", attrs["candidate.name"])
	for k, v := range attrs {
		assert.NotContains(t, v, "jane.doe@example.com", "属性 %s 泄露了邮箱", k)
		assert.NotContains(t, v, "Jane Doe", "属性 %s 泄露了姓名", k)
	}
	assert.NotEmpty(t, attrs["resume.length"])
}

func TestRankJobSpanAttributes(t *testing.T) {
	spanRecorder()
	f := newFixture(t, false)
	job := f.createJob(t)
	_, err := f.submit(t, job.JobID, "jane.txt", goodResume)
	require.NoError(t, err)

	results, err := f.svc.RankJob(context.Background(), job.JobID)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	attrs := findSpan(t, "Service.RankJob", "job.id", job.JobID)
	assert.NotEmpty(t, attrs["job.description"])
	assert.LessOrEqual(t, len([]rune(attrs["job.description"])), 150)
	assert.Equal(t, results[0].ApplicationID, attrs["ranking.top.application_id"])
	assert.Equal(t, "Ja****oe", attrs["ranking.top.candidate.name"])
	assert.False(t, strings.Contains(attrs["ranking.top.candidate.name"], "Jane"))
}
