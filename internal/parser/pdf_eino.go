package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// EinoPDFExtractor 使用 Eino PDF Parser 提取文本，不读取链接注释
type EinoPDFExtractor struct {
	parser  *pdf.PDFParser
	logger  *log.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger *log.Logger) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEinoTimeout 单个文件的解析超时
func WithEinoTimeout(d time.Duration) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEinoPDFExtractor 按页解析，便于统计页数
func NewEinoPDFExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFExtractor{
		parser:  p,
		logger:  log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags),
		timeout: 30 * time.Second,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// Formats 实现 DocumentExtractor
func (e *EinoPDFExtractor) Formats() []string { return []string{".pdf"} }

// Extract 实现 DocumentExtractor
func (e *EinoPDFExtractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithExtraMeta(map[string]any{"size_bytes": len(data)}),
	)
	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("PDF解析失败: %s (用时 %.2f秒)", err, duration.Seconds())
		return nil, fmt.Errorf("eino PDF parser failed: %w", err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, doc.Content)
	}
	text := strings.Join(pages, "\n")

	e.logger.Printf("PDF提取完成: %d 页, %d 个字符 (用时 %.2f秒)", len(docs), len(text), duration.Seconds())
	return &Document{Text: text, Pages: len(docs), Links: []string{}}, nil
}
