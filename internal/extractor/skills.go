package extractor

import (
	"regexp"
	"sort"
	"strings"
)

var (
	skillLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`skills?[:\s]+([^.\n]+)`),
		regexp.MustCompile(`technologies?[:\s]+([^.\n]+)`),
		regexp.MustCompile(`tools?[:\s]+([^.\n]+)`),
		regexp.MustCompile(`languages?[:\s]+([^.\n]+)`),
		regexp.MustCompile(`frameworks?[:\s]+([^.\n]+)`),
	}
	skillSeparators   = regexp.MustCompile(`[,;|•\-\n]`)
	skillDisallowed   = regexp.MustCompile(`[^\w\s\-.+#]`)
	bulletLinePattern = regexp.MustCompile(`[•\-*]\s*([^.\n]+)`)
)

// 标签行拆出的技能去掉非法字符后的长度范围 [3, 50)
const (
	minSkillLen        = 3
	maxSkillLenExclude = 50
)

// SkillsExtractor 技能抽取：词表匹配、标签行拆分、项目符号行扫描三路结果取并集
type SkillsExtractor struct {
	lexicon *Lexicon
}

// NewSkillsExtractor 创建技能抽取器，lexicon 为 nil 时使用内置词表
func NewSkillsExtractor(lexicon *Lexicon) *SkillsExtractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &SkillsExtractor{lexicon: lexicon}
}

// Extract 返回去重并按字母序排序的技能列表
func (e *SkillsExtractor) Extract(src Source) []string {
	found := make(map[string]struct{})
	add := func(skill string) {
		if skill != "" {
			found[skill] = struct{}{}
		}
	}

	lower := src.Lower()
	for _, kw := range e.lexicon.MatchSkills(lower) {
		add(TitleCase(kw.Text))
	}

	for _, p := range skillLabelPatterns {
		for _, m := range p.FindAllStringSubmatch(lower, -1) {
			for _, part := range skillSeparators.Split(m[1], -1) {
				part = strings.TrimSpace(skillDisallowed.ReplaceAllString(part, ""))
				if len(part) < minSkillLen || len(part) >= maxSkillLenExclude {
					continue
				}
				add(TitleCase(part))
			}
		}
	}

	for _, m := range bulletLinePattern.FindAllStringSubmatch(src.Text, -1) {
		for _, kw := range e.lexicon.MatchSkills(m[1]) {
			add(TitleCase(kw.Text))
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}
