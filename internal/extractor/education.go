package extractor

import (
	"regexp"
	"strings"

	"resume-ranker-go/internal/types"
)

var (
	educationHeader = regexp.MustCompile(`(?i)\b(education|academic|qualification|degree)\b`)
	yearPattern     = regexp.MustCompile(`(20\d{2}|19\d{2})`)

	// 依次尝试：cgpa: X、X cgpa、X/Y、X out of Y
	cgpaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:cgpa|gpa)[\s:–-]*([0-9]{1,2}(\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)([0-9]{1,2}(\.[0-9]+)?)\s*(?:cgpa|gpa)`),
		regexp.MustCompile(`(?i)([0-9]{1,2}(\.[0-9]+)?)\s*/\s*[0-9]{1,2}`),
		regexp.MustCompile(`(?i)([0-9]{1,2}(\.[0-9]+)?)\s*out\s*of\s*[0-9]{1,2}`),
	}

	collegeAfterPreposition = regexp.MustCompile(`(?i)(?:from|at)\s+([A-Z][A-Za-z\s,.\-&()]{5,})`)
	collegeLine             = regexp.MustCompile(`^[A-Z][A-Za-z\s,.\-&()]+$`)
	collegeDisallowed       = regexp.MustCompile(`[^\w\s,.\-&()]`)
)

var collegeIndicators = []string{"university", "college", "institute", "school", "academy"}

// EducationExtractor 抽取第一条有效的教育经历
type EducationExtractor struct {
	lexicon *Lexicon
}

// NewEducationExtractor 创建教育经历抽取器，lexicon 为 nil 时使用内置词表
func NewEducationExtractor(lexicon *Lexicon) *EducationExtractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &EducationExtractor{lexicon: lexicon}
}

// Extract 返回长度为0或1的教育经历列表。
// 找到教育章节标题时只扫描其后的行，否则扫描全文。
func (e *EducationExtractor) Extract(src Source) []types.EducationRecord {
	lines := src.Lines
	for i, line := range lines {
		if educationHeader.MatchString(line) {
			lines = lines[i:]
			break
		}
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		kw, ok := e.lexicon.MatchDegree(line)
		if !ok {
			continue
		}

		rec := types.EducationRecord{
			Degree:     strings.ToUpper(kw.Text),
			Graduation: findYear(line, window(lines, i+1, i+4)),
			CGPA:       findCGPA(line, window(lines, i+1, i+3)),
			College:    e.findCollege(line, lines, i),
		}
		if rec.College != "" || rec.Graduation != "" {
			return []types.EducationRecord{rec}
		}
	}
	return []types.EducationRecord{}
}

func findYear(line string, lookahead []string) string {
	if m := yearPattern.FindString(line); m != "" {
		return m
	}
	return yearPattern.FindString(strings.Join(lookahead, " "))
}

func findCGPA(line string, lookahead []string) string {
	area := line + " " + strings.Join(lookahead, " ")
	for _, p := range cgpaPatterns {
		if m := p.FindStringSubmatch(area); m != nil {
			return m[1]
		}
	}
	return ""
}

// findCollege 院校名称依次尝试：from/at 之后的大写短语、下一行的专有名词行、院校指示词附近的单词窗口
func (e *EducationExtractor) findCollege(line string, lines []string, i int) string {
	var college string
	if m := collegeAfterPreposition.FindStringSubmatch(line); m != nil {
		college = strings.TrimSpace(m[1])
	}

	if college == "" && i+1 < len(lines) {
		next := strings.TrimSpace(lines[i+1])
		if len(next) > 5 && len(next) < 80 && collegeLine.MatchString(next) {
			if _, isDegree := e.lexicon.MatchDegree(next); !isDegree {
				college = TitleCase(next)
			}
		}
	}

	if college == "" {
		college = collegeAroundIndicator(line)
	}
	return cleanCollege(college)
}

func collegeAroundIndicator(line string) string {
	lower := strings.ToLower(line)
	words := strings.Fields(line)
	for _, indicator := range collegeIndicators {
		if !strings.Contains(lower, indicator) {
			continue
		}
		for j, w := range words {
			if strings.Contains(strings.ToLower(w), indicator) {
				return strings.Join(window(words, j-2, j+3), " ")
			}
		}
	}
	return ""
}

func cleanCollege(college string) string {
	college = collegeDisallowed.ReplaceAllString(college, "")
	college = strings.Trim(college, " ,.-")
	return capitalizeWords(college)
}
