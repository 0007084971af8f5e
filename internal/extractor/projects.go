package extractor

import (
	"regexp"
	"strings"

	"resume-ranker-go/internal/types"
)

var (
	projectsHeader    = regexp.MustCompile(`(?i)^(projects|academic projects|personal projects|key projects)\s*:?$`)
	techLabelLine     = regexp.MustCompile(`(?i)^(tech stack|technologies|tech|stack|tools|built with)\s*:\s*(.+)$`)
	parenthesisTitle  = regexp.MustCompile(`^(.+?)\s*\(([^()]+)\)$`)
	projectSectionEnd = map[string]struct{}{
		"education": {}, "experience": {}, "work experience": {}, "professional experience": {},
		"skills": {}, "technical skills": {}, "certifications": {}, "certification": {},
		"achievements": {}, "awards": {}, "languages": {}, "interests": {}, "hobbies": {},
		"references": {}, "links": {}, "contact": {},
	}
)

const (
	maxProjects       = 10
	maxTitleWords     = 8
	descriptionJoiner = " "
)

// ProjectsExtractor 抽取项目经历
type ProjectsExtractor struct {
	lexicon *Lexicon
}

// NewProjectsExtractor 创建项目抽取器，lexicon 为 nil 时使用内置词表
func NewProjectsExtractor(lexicon *Lexicon) *ProjectsExtractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &ProjectsExtractor{lexicon: lexicon}
}

type projectDraft struct {
	rec         types.ProjectRecord
	description []string
}

func (d *projectDraft) hasBody() bool {
	return len(d.description) > 0 || d.rec.TechStack != "" || d.rec.Duration != ""
}

// Extract 没有项目章节时返回空列表
func (e *ProjectsExtractor) Extract(src Source) []types.ProjectRecord {
	start := -1
	for i, line := range src.Lines {
		if projectsHeader.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return []types.ProjectRecord{}
	}

	var drafts []*projectDraft
	var cur *projectDraft
	prevBlank := false
	newDraft := func() *projectDraft {
		d := &projectDraft{}
		drafts = append(drafts, d)
		return d
	}

	for _, line := range src.Lines[start:] {
		if line == "" {
			prevBlank = true
			continue
		}
		if isSectionEnd(line) {
			break
		}

		lower := strings.ToLower(line)
		switch {
		case techLabelLine.MatchString(line):
			if cur == nil {
				cur = newDraft()
			}
			cur.rec.TechStack = strings.TrimSpace(techLabelLine.FindStringSubmatch(line)[2])

		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*"):
			if cur == nil {
				cur = newDraft()
			}
			if cur.rec.Duration == "" {
				cur.rec.Duration = matchDuration(lower)
			}
			cur.description = append(cur.description, strings.TrimSpace(strings.TrimLeft(line, "-* ")))

		case cur == nil || prevBlank || (cur.rec.Title != "" && cur.hasBody() && looksLikeTitle(line)):
			cur = newDraft()
			e.applyTitleLine(cur, line, lower)

		case cur.rec.Title == "":
			e.applyTitleLine(cur, line, lower)

		default:
			if cur.rec.Duration == "" {
				cur.rec.Duration = matchDuration(lower)
			}
			cur.description = append(cur.description, line)
		}
		prevBlank = false
	}

	projects := make([]types.ProjectRecord, 0, len(drafts))
	for _, d := range drafts {
		d.rec.Description = strings.Join(d.description, descriptionJoiner)
		if d.rec.Title == "" && d.rec.Description == "" {
			continue
		}
		if d.rec.TechStack == "" {
			d.rec.TechStack = e.lexiconStack(d.rec.Title + "\n" + d.rec.Description)
		}
		projects = append(projects, d.rec)
		if len(projects) == maxProjects {
			break
		}
	}
	return projects
}

// applyTitleLine 解析标题行，支持 "标题 | 技术栈 | 时间" 和 "标题 (技术栈)" 两种形式
func (e *ProjectsExtractor) applyTitleLine(d *projectDraft, line, lower string) {
	for _, p := range durationPatterns {
		if loc := p.FindStringIndex(lower); loc != nil {
			if d.rec.Duration == "" {
				d.rec.Duration = TitleCase(lower[loc[0]:loc[1]])
			}
			if len(lower) == len(line) {
				line = line[:loc[0]] + line[loc[1]:]
			}
			break
		}
	}
	line = strings.Trim(line, " |-,")

	if parts := strings.Split(line, "|"); len(parts) > 1 {
		d.rec.Title = strings.TrimSpace(parts[0])
		var stack []string
		for _, p := range parts[1:] {
			if p = strings.TrimSpace(p); p != "" {
				stack = append(stack, p)
			}
		}
		d.rec.TechStack = strings.Join(stack, ", ")
		return
	}
	if m := parenthesisTitle.FindStringSubmatch(line); m != nil {
		d.rec.Title = strings.TrimSpace(m[1])
		d.rec.TechStack = strings.TrimSpace(m[2])
		return
	}
	d.rec.Title = line
}

func (e *ProjectsExtractor) lexiconStack(text string) string {
	matched := e.lexicon.MatchSkills(strings.ToLower(text))
	stack := make([]string, 0, len(matched))
	for _, kw := range matched {
		stack = append(stack, TitleCase(kw.Text))
	}
	return strings.Join(stack, ", ")
}

func isSectionEnd(line string) bool {
	key := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))
	if _, ok := projectSectionEnd[key]; ok {
		return true
	}
	return allCapsHeader.MatchString(line)
}

func looksLikeTitle(line string) bool {
	return len(strings.Fields(line)) <= maxTitleWords && !strings.HasSuffix(line, ".")
}
