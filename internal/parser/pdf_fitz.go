package parser

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor 基于 MuPDF 的 PDF 提取器，对复杂排版的文本顺序更好，需要 cgo
type FitzExtractor struct {
	logger *log.Logger
}

// NewFitzExtractor 创建提取器
func NewFitzExtractor(logger *log.Logger) *FitzExtractor {
	if logger == nil {
		logger = log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags)
	}
	return &FitzExtractor{logger: logger}
}

// Formats 实现 DocumentExtractor
func (e *FitzExtractor) Formats() []string { return []string{".pdf"} }

// Extract 实现 DocumentExtractor
func (e *FitzExtractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("打开PDF失败: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	var links []string
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(n)
		if err != nil {
			e.logger.Printf("第 %d 页文本提取失败: %v", n+1, err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		// 链接读取失败不影响文本
		pageLinks, err := doc.Links(n)
		if err != nil {
			e.logger.Printf("第 %d 页链接读取失败: %v", n+1, err)
			continue
		}
		for _, l := range pageLinks {
			links = append(links, l.URI)
		}
	}
	return &Document{Text: sb.String(), Pages: doc.NumPage(), Links: dedupLinks(links)}, nil
}
