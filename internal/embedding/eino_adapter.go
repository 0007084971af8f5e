package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
)

// EinoEmbedder 把 eino 的批量 embedding.Embedder 适配为排序引擎的单文本 Embedder
type EinoEmbedder struct {
	inner embedding.Embedder
	name  string
}

// NewEinoEmbedder name 会出现在排序理由中，例如 "aliyun:text-embedding-v3"
func NewEinoEmbedder(inner embedding.Embedder, name string) *EinoEmbedder {
	return &EinoEmbedder{inner: inner, name: name}
}

// Name 向量来源名称
func (e *EinoEmbedder) Name() string { return e.name }

// Embed 单条文本向量化
func (e *EinoEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.inner.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%s 向量化失败: %w", e.name, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, errors.New(e.name + " 返回了空向量")
	}
	return vectors[0], nil
}
