package extractor

import (
	"regexp"
	"strings"

	"resume-ranker-go/internal/types"
)

const monthAlt = `jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`

var (
	experienceHeader = regexp.MustCompile(`\b(experience|work experience|internship experience|professional experience|employment history)\b`)

	// 时间区间，按顺序第一个命中者生效
	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\b(?:` + monthAlt + `)[a-z]*[\s,-]*\d{4})\s*(?:–|to|-|until)\s*(\b(?:` + monthAlt + `)[a-z]*[\s,-]*\d{4}|\b(?:present|current|now))`),
		regexp.MustCompile(`(\d{4})\s*(?:–|to|-)\s*(\d{4}|present|current)`),
		regexp.MustCompile(`(\b(?:` + monthAlt + `)[a-z]*\s*\d{4})\s*(?:–|to|-)\s*(\b(?:` + monthAlt + `)[a-z]*\s*\d{4}|\b(?:present|current))`),
	}

	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(intern|assistant|developer|engineer|analyst|consultant|researcher|manager|coordinator|lead|architect|designer|specialist|officer|executive|associate|senior|junior|principal|head|director|vp|ceo|cto|founder|co-founder)\b`),
		regexp.MustCompile(`\b(software|web|frontend|backend|fullstack|data|machine learning|ai|devops|cloud|mobile|ui|ux|product|project|business|marketing|sales|hr|finance|operations|quality|test|qa|support|admin|system|network|security|database|bi|analytics)\b`),
	}

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:at|for|with)\s+([A-Z][A-Za-z0-9&.\s-]{3,})`),
		regexp.MustCompile(`([A-Z][A-Za-z0-9&.\s-]{3,})\s+(?:inc|corp|llc|ltd|company|corporation)`),
		regexp.MustCompile(`([A-Z][A-Za-z0-9&.\s-]{3,})\s*[-–]\s*[A-Za-z\s]+`),
	}

	allCapsHeader     = regexp.MustCompile(`^[A-Z][A-Z\s:]{3,}$`)
	totalYearsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?\+?)\s*(?:years?|yrs?)\b`)
	dateLike          = regexp.MustCompile(`^(?:(?:` + monthAlt + `)[a-z]*[\s,]*)?\d{4}$`)
)

var (
	responsibilityTriggers = []string{"responsibilities", "key contributions", "roles", "duties", "achievements", "key responsibilities"}
	achievementMarkers     = []string{"achievement", "awarded", "won", "recognized"}
	fallbackTitleTriggers  = []string{"software engineer", "developer", "analyst", "manager", "intern"}
	fallbackTitleWords     = []string{"engineer", "developer", "analyst", "manager", "intern"}
)

const maxPreviousEmployers = 5

// ScanState 经历扫描器的状态
type ScanState int

const (
	// SeekingSection 尚未找到经历章节标题
	SeekingSection ScanState = iota
	// InSection 正在扫描章节内的行
	InSection
	// CollectingResponsibilities 正在收集职责描述
	CollectingResponsibilities
	// Done 扫描结束
	Done
)

func (s ScanState) String() string {
	switch s {
	case SeekingSection:
		return "seeking_section"
	case InSection:
		return "in_section"
	case CollectingResponsibilities:
		return "collecting_responsibilities"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// ExperienceOption 经历抽取器选项
type ExperienceOption func(*ExperienceExtractor)

// WithContinueAfterResponsibilities 收集完职责后继续扫描剩余行，而不是立即结束
func WithContinueAfterResponsibilities(v bool) ExperienceOption {
	return func(e *ExperienceExtractor) {
		e.ContinueAfterResponsibilities = v
	}
}

// ExperienceExtractor 以有限状态机扫描经历章节
type ExperienceExtractor struct {
	// ContinueAfterResponsibilities 为 false 时，第一段职责收集完成即进入 Done
	ContinueAfterResponsibilities bool
}

// NewExperienceExtractor 创建经历抽取器
func NewExperienceExtractor(opts ...ExperienceOption) *ExperienceExtractor {
	e := &ExperienceExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// experienceScan 单次扫描的可变状态
type experienceScan struct {
	rec          types.ExperienceRecord
	state        ScanState
	achievements []string
	respLines    []string
}

// Extract 抽取经历。没有经历章节时返回全默认值记录；
// 找到章节但章节内没有职位时，才在全文中兜底查找职位
func (e *ExperienceExtractor) Extract(src Source) types.ExperienceRecord {
	rec, state := e.scan(src.Lines)
	if state == SeekingSection {
		return types.NewExperienceRecord()
	}
	if rec.JobTitle == "" {
		rec.JobTitle = fallbackJobTitle(src.Lines)
	}
	return rec
}

// scan 运行状态机，返回记录和最终状态
func (e *ExperienceExtractor) scan(lines []string) (types.ExperienceRecord, ScanState) {
	s := &experienceScan{rec: types.NewExperienceRecord(), state: SeekingSection}

	for i := 0; i < len(lines) && s.state != Done; i++ {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)

		switch s.state {
		case SeekingSection:
			if experienceHeader.MatchString(lower) {
				s.state = InSection
			}

		case InSection:
			s.scanLine(line, lower)
			if containsAny(lower, responsibilityTriggers) {
				s.state = CollectingResponsibilities
				s.respLines = s.respLines[:0]
			}

		case CollectingResponsibilities:
			if line == "" || allCapsHeader.MatchString(line) {
				i = e.finishResponsibilities(s, i)
				continue
			}
			s.respLines = append(s.respLines, line)
		}
	}
	if s.state == CollectingResponsibilities {
		e.finishResponsibilities(s, len(lines))
	}

	if len(s.achievements) > 0 {
		s.rec.Achievements = strings.Join(s.achievements, "; ")
	}
	return s.rec, s.state
}

// finishResponsibilities 结束一段职责收集。收集到内容时按配置进入 Done 或回到 InSection；
// 未收集到内容时回到 InSection，并从终止行继续扫描。返回下一轮循环前的行下标。
func (e *ExperienceExtractor) finishResponsibilities(s *experienceScan, i int) int {
	if len(s.respLines) == 0 {
		s.state = InSection
		return i - 1
	}
	if s.rec.JobResponsibilities == "" {
		s.rec.JobResponsibilities = strings.Join(s.respLines, " ")
	}
	s.respLines = s.respLines[:0]
	if e.ContinueAfterResponsibilities {
		s.state = InSection
		return i - 1
	}
	s.state = Done
	return i
}

// scanLine 在章节内的一行上独立运行各字段规则
func (s *experienceScan) scanLine(line, lower string) {
	duration := matchDuration(lower)
	if duration != "" && s.rec.EmploymentDuration == "" {
		s.rec.EmploymentDuration = duration
	}

	if s.rec.JobTitle == "" {
		s.rec.JobTitle = matchJobTitle(line, lower)
	}

	if t := employmentType(lower); t != "" {
		s.rec.EmploymentType = t
	}

	if company := matchCompany(line); company != "" {
		switch {
		case s.rec.CurrentCompany == "":
			s.rec.CurrentCompany = company
		case company != s.rec.CurrentCompany && !dateLike.MatchString(strings.ToLower(company)) &&
			!s.hasEmployer(company) && len(s.rec.PreviousEmployers) < maxPreviousEmployers:
			s.rec.PreviousEmployers = append(s.rec.PreviousEmployers, types.PreviousEmployer{
				Company:  company,
				Duration: duration,
			})
		}
	}

	if s.rec.TotalExperience == "" {
		if m := totalYearsPattern.FindStringSubmatch(lower); m != nil {
			s.rec.TotalExperience = m[1] + " years"
		}
	}

	if isAchievementLine(lower) {
		s.achievements = append(s.achievements, strings.TrimLeft(line, "-* "))
	}
}

func (s *experienceScan) hasEmployer(company string) bool {
	for _, pe := range s.rec.PreviousEmployers {
		if pe.Company == company {
			return true
		}
	}
	return false
}

func matchDuration(lower string) string {
	for _, p := range durationPatterns {
		if m := p.FindString(lower); m != "" {
			return TitleCase(m)
		}
	}
	return ""
}

// matchJobTitle 命中职位关键词后，从原行取命中词及其后相邻的词（最多4个）
func matchJobTitle(line, lower string) string {
	words := strings.Fields(line)
	for _, p := range titlePatterns {
		if !p.MatchString(lower) {
			continue
		}
		var title []string
		for _, w := range words {
			if p.MatchString(strings.ToLower(w)) {
				title = append(title, w)
			} else if len(title) > 0 && len(title) < 4 {
				title = append(title, w)
			}
		}
		if len(title) > 0 {
			return TitleCase(strings.Join(title, " "))
		}
	}
	return ""
}

func employmentType(lower string) string {
	switch {
	case strings.Contains(lower, "intern"):
		return "Internship"
	case strings.Contains(lower, "full-time"), strings.Contains(lower, "full time"):
		return "Full-time"
	case strings.Contains(lower, "part-time"), strings.Contains(lower, "part time"):
		return "Part-time"
	case strings.Contains(lower, "contract"):
		return "Contract"
	case strings.Contains(lower, "freelance"):
		return "Freelance"
	}
	return ""
}

func matchCompany(line string) string {
	for _, p := range companyPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return strings.Join(strings.Fields(m[1]), " ")
		}
	}
	return ""
}

func isAchievementLine(lower string) bool {
	trimmed := strings.TrimLeft(lower, "-* ")
	if len(strings.Fields(trimmed)) < 3 {
		return false
	}
	for _, marker := range achievementMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// fallbackJobTitle 全文扫描通用职位词，取命中词前1后1的窗口
func fallbackJobTitle(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, fallbackTitleTriggers) {
			continue
		}
		words := strings.Fields(line)
		for i, w := range words {
			if containsAny(strings.ToLower(w), fallbackTitleWords) {
				return TitleCase(strings.Join(window(words, i-1, i+2), " "))
			}
		}
	}
	return ""
}
