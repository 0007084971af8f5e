package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PlainPDFExtractor 纯 Go 的 PDF 提取器，同时读取页面上的 URI 链接注释
type PlainPDFExtractor struct {
	logger *log.Logger
}

// NewPlainPDFExtractor 创建提取器，logger 为 nil 时使用默认日志
func NewPlainPDFExtractor(logger *log.Logger) *PlainPDFExtractor {
	if logger == nil {
		logger = log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags)
	}
	return &PlainPDFExtractor{logger: logger}
}

// Formats 实现 DocumentExtractor
func (e *PlainPDFExtractor) Formats() []string { return []string{".pdf"} }

// Extract 实现 DocumentExtractor。库在畸形文件上可能 panic，这里转成错误
func (e *PlainPDFExtractor) Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("解析PDF时发生panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("读取PDF失败: %w", err)
	}

	var sb strings.Builder
	var links []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Printf("第 %d 页文本提取失败: %v", i, err)
		} else {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
		links = append(links, pageLinks(page)...)
	}

	return &Document{Text: sb.String(), Pages: numPages, Links: dedupLinks(links)}, nil
}

// pageLinks 读取 /Annots 中 /Subtype /Link 且动作为 URI 的注释
func pageLinks(page pdf.Page) []string {
	annots := page.V.Key("Annots")
	var out []string
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		if uri := a.Key("A").Key("URI").Text(); uri != "" {
			out = append(out, uri)
		}
	}
	return out
}
