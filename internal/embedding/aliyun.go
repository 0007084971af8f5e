package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

const (
	defaultAliyunModel   = "text-embedding-v3"
	defaultAliyunBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
)

// AliyunEmbedder 通过 DashScope 的 OpenAI 兼容接口实现 embedding.Embedder
type AliyunEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// AliyunOption 阿里云 Embedder 选项
type AliyunOption func(*AliyunEmbedder)

// WithAliyunModel 设置模型
func WithAliyunModel(model string) AliyunOption {
	return func(a *AliyunEmbedder) {
		if model != "" {
			a.model = model
		}
	}
}

// WithAliyunDimensions 设置输出维度，0 表示使用模型默认值
func WithAliyunDimensions(dims int) AliyunOption {
	return func(a *AliyunEmbedder) { a.dimensions = dims }
}

// WithAliyunBaseURL 设置接口地址
func WithAliyunBaseURL(url string) AliyunOption {
	return func(a *AliyunEmbedder) {
		if url != "" {
			a.baseURL = url
		}
	}
}

// WithAliyunHTTPClient 设置 HTTP 客户端
func WithAliyunHTTPClient(c *http.Client) AliyunOption {
	return func(a *AliyunEmbedder) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithAliyunLogger 设置日志
func WithAliyunLogger(l *log.Logger) AliyunOption {
	return func(a *AliyunEmbedder) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAliyunEmbedder 创建阿里云 Embedder
func NewAliyunEmbedder(apiKey string, opts ...AliyunOption) (*AliyunEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空: %w", ErrEmbedderUnavailable)
	}
	a := &AliyunEmbedder{
		apiKey:     apiKey,
		model:      defaultAliyunModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultAliyunBaseURL,
		logger:     log.New(os.Stderr, "[AliyunEmbedder] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Model 当前模型名
func (a *AliyunEmbedder) Model() string { return a.model }

// GetDimensions 返回配置的维度
func (a *AliyunEmbedder) GetDimensions() int { return a.dimensions }

type aliyunRequest struct {
	Input          any    `json:"input"` // string 或 []string
	Model          string `json:"model"`
	Dimensions     int    `json:"dimensions,omitempty"`
	EncodingFormat string `json:"encoding_format,omitempty"`
}

type aliyunResponse struct {
	Object string        `json:"object"`
	Data   []aliyunEntry `json:"data"`
	Model  string        `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	ID    string       `json:"id,omitempty"`
	Error *aliyunError `json:"error,omitempty"`
}

type aliyunEntry struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// aliyunError 200 状态下也可能携带的接口错误
type aliyunError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本转换为向量，实现 eino embedding.Embedder 接口
func (a *AliyunEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	options := embedding.GetCommonOptions(&embedding.Options{}, opts...)
	model := a.model
	if options.Model != nil && *options.Model != "" {
		model = *options.Model
	}

	reqBody := aliyunRequest{Input: texts, Model: model, Dimensions: a.dimensions, EncodingFormat: "float"}
	if len(texts) == 1 {
		reqBody.Input = texts[0]
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var wrapped struct {
			Error aliyunError `json:"error"`
		}
		if json.Unmarshal(body, &wrapped) == nil && wrapped.Error.Message != "" {
			return nil, fmt.Errorf("API调用失败, 状态码: %d, 类型: %s, 错误: %s, Code: %s",
				resp.StatusCode, wrapped.Error.Type, wrapped.Error.Message, wrapped.Error.Code)
		}
		return nil, fmt.Errorf("API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed aliyunResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析响应JSON失败: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, fmt.Errorf("API返回错误: 类型=%s, 消息='%s', Code=%s", parsed.Error.Type, parsed.Error.Message, parsed.Error.Code)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("返回向量数 %d 与输入文本数 %d 不一致", len(parsed.Data), len(texts))
	}

	// 按 index 放回原位置，接口不保证顺序
	out := make([][]float64, len(texts))
	for i, entry := range parsed.Data {
		idx := entry.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		out[idx] = entry.Embedding
	}

	a.logger.Printf("向量化完成: %d 条文本, 维度 %d, 模型 %s, tokens %d, 首向量 %s",
		len(texts), firstDim(out), model, parsed.Usage.TotalTokens, truncateEmbedding(out[0]))
	return out, nil
}

func firstDim(vectors [][]float64) int {
	if len(vectors) > 0 {
		return len(vectors[0])
	}
	return 0
}

// truncateEmbedding 日志中只显示向量首尾各3个值
func truncateEmbedding(vector []float64) string {
	const maxLen, showEachSide = 6, 3
	if len(vector) <= maxLen {
		return fmt.Sprintf("%v", vector)
	}
	parts := make([]string, 0, 2*showEachSide+1)
	for _, v := range vector[:showEachSide] {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	parts = append(parts, "...")
	for _, v := range vector[len(vector)-showEachSide:] {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
