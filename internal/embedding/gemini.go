package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cloudwego/eino/components/embedding"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-embedding-001"

// maxGeminiInputBytes 超长文本截断，避免接口拒绝
const maxGeminiInputBytes = 10000

// GeminiEmbedder 基于 Gemini API 的 embedding.Embedder 实现
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
	logger     *log.Logger
}

// GeminiOption Gemini Embedder 选项
type GeminiOption func(*GeminiEmbedder)

// WithGeminiModel 设置模型
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiEmbedder) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGeminiDimensions 设置输出维度
func WithGeminiDimensions(dims int) GeminiOption {
	return func(g *GeminiEmbedder) { g.dimensions = dims }
}

// WithGeminiLogger 设置日志
func WithGeminiLogger(l *log.Logger) GeminiOption {
	return func(g *GeminiEmbedder) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGeminiEmbedder 创建 Gemini Embedder
func NewGeminiEmbedder(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY 未设置: %w", ErrEmbedderUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建Gemini客户端失败: %w", err)
	}
	g := &GeminiEmbedder{
		client: client,
		model:  defaultGeminiModel,
		logger: log.New(os.Stderr, "[GeminiEmbedder] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model 当前模型名
func (g *GeminiEmbedder) Model() string { return g.model }

// EmbedStrings 实现 eino embedding.Embedder 接口
func (g *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if len(text) > maxGeminiInputBytes {
			g.logger.Printf("文本长度 %d 超过上限，截断到 %d", len(text), maxGeminiInputBytes)
			text = text[:maxGeminiInputBytes]
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	var cfg *genai.EmbedContentConfig
	if g.dimensions > 0 {
		dims := int32(g.dimensions)
		cfg = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	return validateGeminiResponse(resp, len(texts))
}

func validateGeminiResponse(resp *genai.EmbedContentResponse, want int) ([][]float64, error) {
	if resp == nil {
		return nil, errors.New("Gemini 响应为空")
	}
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("返回向量数 %d 与输入文本数 %d 不一致", len(resp.Embeddings), want)
	}
	out := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("第 %d 个向量为空", i)
		}
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("第 %d 个向量在位置 %d 出现非法值 %v", i, j, v)
			}
			vec[j] = f
		}
		out[i] = vec
	}
	return out, nil
}

// classifyGeminiError 限流和服务端错误包装为可重试
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return fmt.Errorf("Gemini 接口错误 %d: %s: %w", apiErr.Code, apiErr.Message, errRetryable)
		}
		return fmt.Errorf("Gemini 接口错误 %d: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("调用Gemini向量接口失败: %w", err)
}
