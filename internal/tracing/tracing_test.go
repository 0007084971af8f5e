package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMaskPII(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"a":                   "*",
		"张三":                  "张*",
		"王小明":                 "王*明",
		"13812345678":         "13*******78",
		"jane@example.com":    "ja************om",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskPII(in), "输入: %q", in)
	}
}

func TestSafeAttributeValue(t *testing.T) {
	assert.Equal(t, "ja************om", SafeAttributeValue("candidate.email", "jane@example.com", 100))
	assert.Equal(t, "hello", SafeAttributeValue("job.title", "hello", 100))
	assert.Equal(t, "ab...yz", SafeAttributeValue("job.title", "abcdefghijklmnopqrstuvwxyz", 7))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Len(t, []rune(SafeText(string(make([]rune, 500)))), MaxTextLength-1)
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, span := tracer.Start(context.Background(), "op")
	RecordError(span, errors.New("boom"), ErrorTypeDB, attribute.String("table", "jobs"))
	span.End()

	_, span = tracer.Start(context.Background(), "slow")
	RecordError(span, context.DeadlineExceeded, ErrorTypeEmbedding)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("error.type", "db"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("table", "jobs"))
	assert.Contains(t, spans[1].Attributes(), attribute.String("error.type", "timeout"), "超时统一归类")

	// nil 安全
	RecordError(nil, errors.New("x"), ErrorTypeDB)
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false}, "svc", "dev")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
