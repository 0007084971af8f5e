package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
	docxHyperlink    = regexp.MustCompile(`Target="(https?://[^"]+|mailto:[^"]+)"[^>]*TargetMode="External"`)
)

// DocxExtractor .docx 文件，保留段落换行并读取外部超链接
type DocxExtractor struct{}

// Formats 实现 DocumentExtractor
func (DocxExtractor) Formats() []string { return []string{".docx"} }

// Extract 实现 DocumentExtractor
func (DocxExtractor) Extract(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("解析docx失败: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	text := docxParagraphEnd.ReplaceAllString(content, "\n")
	text = docxTab.ReplaceAllString(text, " ")
	text = docxTag.ReplaceAllString(text, "")
	text = unescapeXML(text)

	return &Document{Text: text, Pages: 1, Links: docxLinks(data)}, nil
}

// docxLinks 超链接目标只记录在关系文件里，docx 库不暴露它
func docxLinks(data []byte) []string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return []string{}
	}
	var links []string
	for _, f := range zr.File {
		if f.Name != "word/_rels/document.xml.rels" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		rels, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			break
		}
		for _, m := range docxHyperlink.FindAllStringSubmatch(string(rels), -1) {
			links = append(links, unescapeXML(m[1]))
		}
	}
	return dedupLinks(links)
}

var xmlEntities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}
