// Package parser 把简历文件解码成文本，再交给字段抽取器生成结构化画像
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat 文件扩展名没有对应的提取器
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument 文档中没有可提取的文本
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// Document 文档提取结果
type Document struct {
	Text  string   `json:"text"`
	Pages int      `json:"pages"`
	Links []string `json:"links"` // 文档内嵌的超链接 URI
}

// DocumentExtractor 从文件内容中提取文本和内嵌链接
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte) (*Document, error)
	// Formats 支持的扩展名，小写带点，例如 ".pdf"
	Formats() []string
}

// MultiFormatExtractor 按扩展名分发到具体提取器
type MultiFormatExtractor struct {
	byExt map[string]DocumentExtractor
}

// NewMultiFormatExtractor 后注册的提取器覆盖先注册的同名扩展
func NewMultiFormatExtractor(extractors ...DocumentExtractor) *MultiFormatExtractor {
	m := &MultiFormatExtractor{byExt: make(map[string]DocumentExtractor)}
	for _, e := range extractors {
		for _, ext := range e.Formats() {
			m.byExt[strings.ToLower(ext)] = e
		}
	}
	return m
}

// Supports 是否支持该文件名
func (m *MultiFormatExtractor) Supports(name string) bool {
	_, ok := m.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ExtractBytes 提取内存中的文件内容，name 仅用于判断格式
func (m *MultiFormatExtractor) ExtractBytes(ctx context.Context, name string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	e, ok := m.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	doc, err := e.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	if doc.Links == nil {
		doc.Links = []string{}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return doc, ErrEmptyDocument
	}
	return doc, nil
}

// ExtractFile 读取并提取本地文件
func (m *MultiFormatExtractor) ExtractFile(ctx context.Context, path string) (*Document, error) {
	if !m.Supports(path) {
		return nil, fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件 %s 失败: %w", path, err)
	}
	return m.ExtractBytes(ctx, path, data)
}

// PlainTextExtractor .txt 文件
type PlainTextExtractor struct{}

// Formats 实现 DocumentExtractor
func (PlainTextExtractor) Formats() []string { return []string{".txt"} }

// Extract 实现 DocumentExtractor
func (PlainTextExtractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Document{Text: string(data), Pages: 1, Links: []string{}}, nil
}

// dedupLinks 保序去重
func dedupLinks(links []string) []string {
	out := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
