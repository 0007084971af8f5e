package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/config"
)

var quietLogger = log.New(io.Discard, "", 0)

// newAliyunServer 模拟 DashScope 接口，按输入顺序倒序返回 index 以验证重排
func newAliyunServer(t *testing.T, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit","code":"Throttling"}}`))
			return
		}

		var req aliyunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		var inputs []string
		switch v := req.Input.(type) {
		case string:
			inputs = []string{v}
		case []any:
			for _, s := range v {
				inputs = append(inputs, s.(string))
			}
		}

		resp := aliyunResponse{Object: "list", Model: req.Model}
		for i := len(inputs) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, aliyunEntry{
				Object:    "embedding",
				Index:     i,
				Embedding: []float64{float64(len(inputs[i])), float64(i)},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestAliyunEmbedder_EmbedStrings(t *testing.T) {
	srv, _ := newAliyunServer(t, http.StatusOK)
	emb, err := NewAliyunEmbedder("sk-test", WithAliyunBaseURL(srv.URL), WithAliyunLogger(quietLogger))
	require.NoError(t, err)

	vectors, err := emb.EmbedStrings(context.Background(), []string{"a", "bbb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {3, 1}}, vectors, "应按 index 放回原顺序")

	single, err := emb.EmbedStrings(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 0}}, single)
}

func TestAliyunEmbedder_EmptyInput(t *testing.T) {
	emb, err := NewAliyunEmbedder("dummy", WithAliyunLogger(quietLogger))
	require.NoError(t, err)

	vectors, err := emb.EmbedStrings(context.Background(), nil)
	require.NoError(t, err, "空输入返回空切片而非错误")
	require.NotNil(t, vectors)
	assert.Empty(t, vectors)
}

func TestAliyunEmbedder_APIError(t *testing.T) {
	srv, _ := newAliyunServer(t, http.StatusTooManyRequests)
	emb, err := NewAliyunEmbedder("sk-test", WithAliyunBaseURL(srv.URL), WithAliyunLogger(quietLogger))
	require.NoError(t, err)

	_, err = emb.EmbedStrings(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota")
}

func TestNewAliyunEmbedder_NoAPIKey(t *testing.T) {
	_, err := NewAliyunEmbedder("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedderUnavailable)
	assert.Contains(t, err.Error(), "API密钥不能为空")
}

func TestFactory(t *testing.T) {
	t.Run("默认本地哈希", func(t *testing.T) {
		emb, err := New(context.Background(), config.EmbeddingConfig{Provider: config.ProviderHashing}, nil, quietLogger)
		require.NoError(t, err)
		assert.Equal(t, "hashing", emb.Name())
	})

	t.Run("阿里云经过限流和缓存", func(t *testing.T) {
		srv, calls := newAliyunServer(t, http.StatusOK)
		cache := newMemCache()
		emb, err := New(context.Background(), config.EmbeddingConfig{
			Provider: config.ProviderAliyun,
			APIKey:   "sk-test",
			BaseURL:  srv.URL,
			CacheTTL: "1h",
		}, cache, quietLogger)
		require.NoError(t, err)
		assert.Equal(t, "aliyun:text-embedding-v3", emb.Name())

		first, err := emb.Embed(context.Background(), "golang")
		require.NoError(t, err)
		second, err := emb.Embed(context.Background(), "golang")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, *calls, "第二次应命中缓存")
	})

	t.Run("未知服务", func(t *testing.T) {
		_, err := New(context.Background(), config.EmbeddingConfig{Provider: "openai"}, nil, quietLogger)
		assert.ErrorIs(t, err, ErrEmbedderUnavailable)
	})

	t.Run("Gemini缺少密钥", func(t *testing.T) {
		_, err := New(context.Background(), config.EmbeddingConfig{Provider: config.ProviderGemini}, nil, quietLogger)
		assert.ErrorIs(t, err, ErrEmbedderUnavailable)
	})
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]float64
	err  error
}

func newMemCache() *memCache { return &memCache{data: map[string][]float64{}} }

func (m *memCache) GetVector(_ context.Context, key string) ([]float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) SetVector(_ context.Context, key string, vector []float64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = vector
	return nil
}

type countingEmbedder struct{ calls int }

func (c *countingEmbedder) Name() string { return "counting" }

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	c.calls++
	return []float64{float64(len(text))}, nil
}

func TestCachedEmbedder_CacheFailureIsNotFatal(t *testing.T) {
	inner := &countingEmbedder{}
	cache := newMemCache()
	cache.err = errors.New("redis down")
	emb := NewCachedEmbedder(inner, cache, time.Minute, quietLogger)

	vec, err := emb.Embed(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, vec)
	assert.Equal(t, "counting", emb.Name())

	_, _ = emb.Embed(context.Background(), "abc")
	assert.Equal(t, 2, inner.calls, "缓存不可用时每次都调用内部 Embedder")
}

type fixedEino struct {
	out [][]float64
	err error
}

func (f fixedEino) EmbedStrings(context.Context, []string, ...embedding.Option) ([][]float64, error) {
	return f.out, f.err
}

func TestEinoEmbedder(t *testing.T) {
	emb := NewEinoEmbedder(fixedEino{out: [][]float64{{1, 2}}}, "fake")
	vec, err := emb.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vec)

	_, err = NewEinoEmbedder(fixedEino{out: [][]float64{}}, "fake").Embed(context.Background(), "x")
	assert.Error(t, err)

	_, err = NewEinoEmbedder(fixedEino{err: errors.New("boom")}, "fake").Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "boom")
}

// TestGeminiEmbedder_Live 需要 GEMINI_API_KEY
func TestGeminiEmbedder_Live(t *testing.T) {
	apiKey := os.Getenv(config.EnvGeminiAPIKey)
	if apiKey == "" {
		t.Skip("未设置 GEMINI_API_KEY，跳过 Gemini 集成测试")
	}
	emb, err := NewGeminiEmbedder(context.Background(), apiKey, WithGeminiDimensions(256), WithGeminiLogger(quietLogger))
	require.NoError(t, err)

	vectors, err := emb.EmbedStrings(context.Background(), []string{"golang developer", "python engineer"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 256)
}
