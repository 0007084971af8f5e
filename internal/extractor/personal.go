package extractor

import (
	"regexp"
	"strings"

	"resume-ranker-go/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// 依次尝试：美式格式、国际格式、纯数字串。分隔符只允许水平空白，匹配不会跨行
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-. \t]?\(?[0-9]{3}\)?[-. \t]?[0-9]{3}[-. \t]?[0-9]{4}`),
		regexp.MustCompile(`\+?[0-9]{1,4}[-. \t]?[0-9]{6,14}`),
		regexp.MustCompile(`[0-9]{10,15}`),
	}

	nameLinePattern   = regexp.MustCompile(`^[A-Za-z\s.\-]+$`)
	titleCaseNameLine = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)+$`)
)

var (
	nameDenylistStrict = []string{"resume", "cv", "curriculum vitae", "profile", "portfolio", "objective", "summary"}
	nameDenylistLoose  = []string{"resume", "cv", "curriculum vitae", "profile", "portfolio"}
)

// PersonalExtractor 抽取姓名、邮箱和电话
type PersonalExtractor struct{}

// NewPersonalExtractor 创建基本信息抽取器
func NewPersonalExtractor() *PersonalExtractor {
	return &PersonalExtractor{}
}

// Extract 抽取基本信息。姓名依次尝试：
// 前10行中2-4个单词的纯字母行、前15行中标题格式的行、邮箱用户名
func (e *PersonalExtractor) Extract(src Source) types.PersonalRecord {
	rec := types.PersonalRecord{
		Email: emailPattern.FindString(src.Text),
	}
	for _, p := range phonePatterns {
		if m := p.FindString(src.Text); m != "" {
			rec.Phone = strings.TrimSpace(m)
			break
		}
	}

	rec.Name = e.nameFromLines(src.Lines, rec.Email, rec.Phone)
	if rec.Name == "" && rec.Email != "" {
		rec.Name = nameFromEmail(rec.Email)
	}
	return rec
}

func (e *PersonalExtractor) nameFromLines(lines []string, email, phone string) string {
	skip := func(line string) bool {
		return (email != "" && strings.Contains(line, email)) || (phone != "" && strings.Contains(line, phone))
	}

	for _, line := range window(lines, 0, 10) {
		line = strings.TrimSpace(line)
		if line == "" || skip(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if nameLinePattern.MatchString(line) && len(line) > 3 && !containsAny(strings.ToLower(line), nameDenylistStrict) {
			return line
		}
	}

	for _, line := range window(lines, 0, 15) {
		line = strings.TrimSpace(line)
		if line == "" || skip(line) {
			continue
		}
		if titleCaseNameLine.MatchString(line) && len(line) > 3 && len(line) < 50 &&
			!containsAny(strings.ToLower(line), nameDenylistLoose) {
			return line
		}
	}
	return ""
}

// nameFromEmail jane.doe_x@... -> "Jane Doe X"
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return capitalizeWords(local)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
