package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/config"
)

var quietLogger = log.New(io.Discard, "", 0)

const sampleResume = `Jane Doe
jane.doe@example.com
(555) 123-4567
linkedin.com/in/janedoe

EDUCATION
B.Tech Computer Science - ABC Institute of Technology, 2021, CGPA: 8.7

SKILLS
Python, Docker, PostgreSQL
`

// buildDocx 构造最小可读的 docx：正文一段一行，外加一个外部超链接关系
func buildDocx(t *testing.T, paragraphs []string, link string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="` + link + `" TargetMode="External"/>` +
		`</Relationships>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            body.String(),
		"word/_rels/document.xml.rels": rels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMultiFormatExtractor(t *testing.T) {
	m := NewMultiFormatExtractor(PlainTextExtractor{}, DocxExtractor{})
	assert.True(t, m.Supports("cv.TXT"), "扩展名不区分大小写")
	assert.False(t, m.Supports("cv.pages"))

	_, err := m.ExtractBytes(context.Background(), "cv.pages", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	doc, err := m.ExtractBytes(context.Background(), "cv.txt", []byte("   \n "))
	assert.ErrorIs(t, err, ErrEmptyDocument)
	require.NotNil(t, doc, "空文档也返回提取结果")
	assert.NotNil(t, doc.Links)
}

func TestDocxExtractor(t *testing.T) {
	data := buildDocx(t, []string{"Jane Doe", "Python &amp; Go developer"}, "https://github.com/janedoe")
	doc, err := DocxExtractor{}.Extract(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nPython & Go developer\n", doc.Text)
	assert.Equal(t, []string{"https://github.com/janedoe"}, doc.Links)
}

func TestDocxExtractor_Invalid(t *testing.T) {
	_, err := DocxExtractor{}.Extract(context.Background(), []byte("not a zip"))
	assert.Error(t, err)
}

func TestPlainPDFExtractor_Invalid(t *testing.T) {
	_, err := NewPlainPDFExtractor(quietLogger).Extract(context.Background(), []byte("%PDF-1.4 garbage"))
	assert.Error(t, err, "畸形PDF返回错误而非panic")
}

func TestResumeParser_ParseText(t *testing.T) {
	p := NewResumeParser(nil, WithLogger(quietLogger))
	res := p.ParseText(sampleResume)

	profile := res.Profile
	assert.Equal(t, "Jane Doe", profile.PersonalDetails.Name)
	assert.Equal(t, "jane.doe@example.com", profile.PersonalDetails.Email)
	assert.Equal(t, "(555) 123-4567", profile.PersonalDetails.Phone)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "2021", profile.Education[0].Graduation)
	assert.Equal(t, "8.7", profile.Education[0].CGPA)
	assert.Contains(t, profile.Skills, "Python")
	assert.Contains(t, profile.Links.LinkedIn, "linkedin.com/in/janedoe")

	assert.NotContains(t, res.Text, "\n", "排序文本为单行")
}

func TestResumeParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(txt, []byte(sampleResume), 0o644))

	p := NewResumeParser(NewMultiFormatExtractor(PlainTextExtractor{}, DocxExtractor{}), WithLogger(quietLogger))

	res, err := p.ParseFile(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.Profile.PersonalDetails.Name)

	docx := filepath.Join(dir, "jane.docx")
	require.NoError(t, os.WriteFile(docx, buildDocx(t, []string{"Jane Doe", "jane.doe@example.com"}, "https://janedoe.dev/portfolio"), 0o644))
	profile := p.Parse(context.Background(), docx)
	assert.Equal(t, "jane.doe@example.com", profile.PersonalDetails.Email)
	assert.Equal(t, "https://janedoe.dev/portfolio", profile.Links.Website, "内嵌链接填充网站字段")
}

func TestResumeParser_FailuresDegradeToEmptyProfile(t *testing.T) {
	p := NewResumeParser(nil, WithLogger(quietLogger))

	res, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Profile.PersonalDetails.Name)
	assert.NotNil(t, res.Profile.Skills)
	assert.NotNil(t, res.Profile.Education)

	res, err = p.ParseBytes(context.Background(), "cv.exe", []byte("MZ"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotNil(t, res.Profile.Links.Social)

	profile := p.Parse(context.Background(), "/nonexistent/cv.pdf")
	assert.NotNil(t, profile.Projects, "Parse 从不失败")
}

func TestNewDocumentExtractor(t *testing.T) {
	ctx := context.Background()

	m, err := NewDocumentExtractor(ctx, config.ParserConfig{PDFBackend: config.PDFBackendLedongthuc}, quietLogger)
	require.NoError(t, err)
	assert.True(t, m.Supports("a.pdf"))
	assert.True(t, m.Supports("a.docx"))

	m, err = NewDocumentExtractor(ctx, config.ParserConfig{AllowedExtensions: []string{".pdf"}}, quietLogger)
	require.NoError(t, err)
	assert.True(t, m.Supports("a.pdf"))
	assert.False(t, m.Supports("a.txt"), "未允许的扩展名不可解析")

	_, err = NewDocumentExtractor(ctx, config.ParserConfig{PDFBackend: "tika"}, quietLogger)
	assert.Error(t, err)
}

func TestNewEinoPDFExtractor(t *testing.T) {
	e, err := NewEinoPDFExtractor(context.Background(), WithEinoLogger(quietLogger))
	require.NoError(t, err)
	assert.Equal(t, []string{".pdf"}, e.Formats())
	assert.Equal(t, quietLogger, e.logger)
}
