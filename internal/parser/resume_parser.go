package parser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-ranker-go/internal/config"
	"resume-ranker-go/internal/extractor"
	"resume-ranker-go/internal/tracing"
	"resume-ranker-go/internal/types"
)

var tracer = otel.Tracer("parser")

// Result 一次解析的完整输出
type Result struct {
	Profile types.CandidateProfile `json:"profile"`
	// Text 排序引擎使用的单行规范化文本
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// ResumeParser 解析编排：文档提取 → 各字段抽取器 → 结构化画像
type ResumeParser struct {
	docs       *MultiFormatExtractor
	personal   *extractor.PersonalExtractor
	education  *extractor.EducationExtractor
	experience *extractor.ExperienceExtractor
	skills     *extractor.SkillsExtractor
	links      *extractor.LinksExtractor
	projects   *extractor.ProjectsExtractor
	logger     *log.Logger
}

type parserOptions struct {
	lexicon          *extractor.Lexicon
	logger           *log.Logger
	experienceOption []extractor.ExperienceOption
}

// Option ResumeParser 选项
type Option func(*parserOptions)

// WithLogger 设置日志
func WithLogger(l *log.Logger) Option {
	return func(o *parserOptions) { o.logger = l }
}

// WithLexicon 替换默认词表
func WithLexicon(l *extractor.Lexicon) Option {
	return func(o *parserOptions) { o.lexicon = l }
}

// WithContinueAfterResponsibilities 工作职责收集完后继续扫描经历段落
func WithContinueAfterResponsibilities(v bool) Option {
	return func(o *parserOptions) {
		o.experienceOption = append(o.experienceOption, extractor.WithContinueAfterResponsibilities(v))
	}
}

// NewResumeParser docs 为 nil 时只支持 ParseDocument/ParseText
func NewResumeParser(docs *MultiFormatExtractor, opts ...Option) *ResumeParser {
	o := &parserOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.lexicon == nil {
		o.lexicon = extractor.DefaultLexicon()
	}
	if o.logger == nil {
		o.logger = log.New(os.Stderr, "[简历解析] ", log.LstdFlags)
	}
	if docs == nil {
		docs = NewMultiFormatExtractor(PlainTextExtractor{})
	}
	return &ResumeParser{
		docs:       docs,
		personal:   extractor.NewPersonalExtractor(),
		education:  extractor.NewEducationExtractor(o.lexicon),
		experience: extractor.NewExperienceExtractor(o.experienceOption...),
		skills:     extractor.NewSkillsExtractor(o.lexicon),
		links:      extractor.NewLinksExtractor(),
		projects:   extractor.NewProjectsExtractor(o.lexicon),
		logger:     o.logger,
	}
}

// Supports 文件格式是否可解析
func (p *ResumeParser) Supports(name string) bool {
	return p.docs.Supports(name)
}

// Parse 解析本地文件。文档无法读取时记录日志并返回空画像，从不失败
func (p *ResumeParser) Parse(ctx context.Context, path string) types.CandidateProfile {
	res, err := p.ParseFile(ctx, path)
	if err != nil {
		p.logger.Printf("文档提取失败，返回空画像: %s: %v", filepath.Base(path), err)
	}
	return res.Profile
}

// ParseFile 与 Parse 相同，但把提取错误交给调用方决定是否对外暴露。Result 始终非 nil
func (p *ResumeParser) ParseFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return p.ParseText(""), fmt.Errorf("读取文件 %s 失败: %w", path, err)
	}
	return p.ParseBytes(ctx, filepath.Base(path), data)
}

// ParseBytes 解析内存中的文件，name 用于判断格式
func (p *ResumeParser) ParseBytes(ctx context.Context, name string, data []byte) (*Result, error) {
	ctx, span := tracer.Start(ctx, "ResumeParser.ParseBytes")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.ext", filepath.Ext(name)),
		attribute.Int("file.size", len(data)),
	)

	start := time.Now()
	doc, err := p.docs.ExtractBytes(ctx, name, data)
	if err != nil {
		errType := tracing.ErrorTypeParse
		if errors.Is(err, ErrUnsupportedFormat) {
			errType = tracing.ErrorTypeValidation
		}
		tracing.RecordError(span, err, errType)
		if doc == nil {
			doc = &Document{Links: []string{}}
		}
	}

	res := p.ParseDocument(doc)
	span.SetAttributes(
		attribute.Int("document.pages", res.Pages),
		attribute.Int("document.text_length", len(res.Text)),
		attribute.Int("profile.skills", len(res.Profile.Skills)),
	)
	p.logger.Printf("解析完成: %s, %d 页, %d 个技能, 用时 %s",
		tracing.TruncateString(name, 60), res.Pages, len(res.Profile.Skills), time.Since(start).Round(time.Millisecond))
	return res, err
}

// ParseText 直接解析已提取的文本
func (p *ResumeParser) ParseText(text string) *Result {
	return p.ParseDocument(&Document{Text: text, Pages: 1, Links: []string{}})
}

// ParseDocument 在已提取的文档上运行全部抽取器。各抽取器互不依赖
func (p *ResumeParser) ParseDocument(doc *Document) *Result {
	src := extractor.NewSource(doc.Text)
	profile := types.CandidateProfile{
		PersonalDetails: p.personal.Extract(src),
		Education:       p.education.Extract(src),
		Experience:      p.experience.Extract(src),
		Skills:          p.skills.Extract(src),
		Projects:        p.projects.Extract(src),
		Links:           p.links.Extract(src, doc.Links),
	}
	return &Result{
		Profile: profile,
		Text:    extractor.Normalize(doc.Text),
		Pages:   doc.Pages,
	}
}

// NewDocumentExtractor 按配置选择 PDF 后端，DOCX 与纯文本总是可用
func NewDocumentExtractor(ctx context.Context, cfg config.ParserConfig, logger *log.Logger) (*MultiFormatExtractor, error) {
	var pdfExtractor DocumentExtractor
	switch cfg.PDFBackend {
	case config.PDFBackendFitz:
		pdfExtractor = NewFitzExtractor(logger)
	case config.PDFBackendEino:
		e, err := NewEinoPDFExtractor(ctx, WithEinoLogger(logger))
		if err != nil {
			return nil, err
		}
		pdfExtractor = e
	case "", config.PDFBackendLedongthuc:
		pdfExtractor = NewPlainPDFExtractor(logger)
	default:
		return nil, fmt.Errorf("未知的PDF解析后端 %q", cfg.PDFBackend)
	}

	all := []DocumentExtractor{pdfExtractor, DocxExtractor{}, PlainTextExtractor{}}
	if len(cfg.AllowedExtensions) == 0 {
		return NewMultiFormatExtractor(all...), nil
	}

	// 只保留允许的扩展名
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[ext] = true
	}
	m := NewMultiFormatExtractor()
	for _, e := range all {
		for _, ext := range e.Formats() {
			if allowed[ext] {
				m.byExt[ext] = e
			}
		}
	}
	return m, nil
}
