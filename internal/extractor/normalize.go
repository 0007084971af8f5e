// Package extractor 从简历文本中抽取结构化字段。
// 所有抽取器都是全函数：任何输入（包括空串）都返回结构完整的记录，不会报错也不会阻塞。
package extractor

import (
	"regexp"
	"strings"
)

var (
	nonASCIIRun   = regexp.MustCompile(`[^\x00-\x7F]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	horizontalRun = regexp.MustCompile(`[ \t\f\v]+`)

	// 排版字符在去除非ASCII之前先转写，避免日期区间和项目符号丢失
	typographyReplacer = strings.NewReplacer(
		"–", "-", // en dash
		"—", "-", // em dash
		"‒", "-",
		"−", "-",
		"•", "-", // bullet
		"●", "-",
		"▪", "-",
		"◦", "-",
		"\uf0b7", "-", // Word 私有区项目符号
		"‘", "'",
		"’", "'",
		"“", "\"",
		"”", "\"",
		"\u00a0", " ",
	)
)

// Normalize 将整段文本清洗为单行：非ASCII字符替换为空格，折叠空白并去除首尾空白。
// 排序引擎使用该形式作为输入。
func Normalize(text string) string {
	text = nonASCIIRun.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeLines 返回保留换行的逐行视图，供各抽取器使用
func NormalizeLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = typographyReplacer.Replace(text)

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = nonASCIIRun.ReplaceAllString(line, " ")
		line = horizontalRun.ReplaceAllString(line, " ")
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// Source 抽取器的统一输入
type Source struct {
	Text  string   // 按行拼接后的文本
	Lines []string // 逐行视图，空行保留
}

// NewSource 从原始文档文本构造抽取输入
func NewSource(raw string) Source {
	lines := NormalizeLines(raw)
	return Source{
		Text:  strings.Join(lines, "\n"),
		Lines: lines,
	}
}

// Lower 返回小写文本
func (s Source) Lower() string {
	return strings.ToLower(s.Text)
}

// TitleCase 按单词首字母大写的方式格式化：字母紧跟在字母之后时小写，否则大写。
// 例如 "node.js" -> "Node.Js"，"3d modeling" -> "3D Modeling"。
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case isLetter && prevLetter:
			b.WriteString(strings.ToLower(string(r)))
		case isLetter:
			b.WriteString(strings.ToUpper(string(r)))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// capitalizeWords 每个空白分隔的单词首字母大写、其余小写
func capitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, w := range fields {
		fields[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(fields, " ")
}

// isWordByte 判断是否为正则 \w 字符
func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// keywordPattern 构造关键词匹配正则，仅在关键词首尾为单词字符时加 \b，
// 使 "c++"、"c#"、".net" 这类关键词也能命中
func keywordPattern(keyword string) *regexp.Regexp {
	kw := strings.ToLower(keyword)
	var b strings.Builder
	b.WriteString(`(?i)`)
	if kw != "" && isWordByte(kw[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(kw))
	if kw != "" && isWordByte(kw[len(kw)-1]) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

// window 取 [from,to) 范围内的行，越界部分截断
func window(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	return lines[from:to]
}
