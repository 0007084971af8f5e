package ranking

import (
	"regexp"
	"sort"
	"strings"
)

var (
	experienceTerm    = regexp.MustCompile(`(\d+[\+]?\s*(?:years?|yrs?))`)
	educationTerm     = regexp.MustCompile(`\b(bachelor|master|phd|b\.?tech|m\.?tech|b\.?e|m\.?e|mba|b\.?a|m\.?a)\b`)
	certificationTerm = regexp.MustCompile(`(\w+\s+certification|\w+\s+license|\w+\s+certified)`)
	capitalizedTerm   = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*\b`)

	capitalizedSkip = map[string]struct{}{
		"The": {}, "And": {}, "Or": {}, "But": {}, "In": {}, "On": {}, "At": {}, "To": {}, "For": {},
		"Of": {}, "With": {}, "By": {}, "From": {}, "About": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	}
)

const (
	frequentCandidates = 20
	frequentKeep       = 10
	capitalizedKeep    = 5
)

// orderedSet 按首次加入顺序去重
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(items ...string) {
	for _, it := range items {
		if _, ok := s.seen[it]; ok {
			continue
		}
		s.seen[it] = struct{}{}
		s.items = append(s.items, it)
	}
}

func (s *orderedSet) has(item string) bool {
	_, ok := s.seen[item]
	return ok
}

// ExtractKeyTerms 抽取文本的关键词集合，结果去重且顺序稳定：
// 领域概念、年限、学历、证书、高频词、首字母大写短语
func ExtractKeyTerms(text string, domain *DomainKnowledge) []string {
	if domain == nil {
		domain = DefaultDomainKnowledge()
	}
	lower := strings.ToLower(text)
	terms := newOrderedSet()

	terms.add(domain.matchVocabulary(lower)...)
	terms.add(experienceTerm.FindAllString(lower, -1)...)
	terms.add(educationTerm.FindAllString(lower, -1)...)
	terms.add(certificationTerm.FindAllString(lower, -1)...)
	terms.add(frequentWords(lower)...)

	var caps []string
	for _, t := range capitalizedTerm.FindAllString(text, -1) {
		if _, skip := capitalizedSkip[t]; skip || len(t) <= 2 {
			continue
		}
		caps = append(caps, t)
		if len(caps) == capitalizedKeep {
			break
		}
	}
	terms.add(caps...)
	return terms.items
}

// frequentWords 出现至少两次的非停用词（长度大于3），按词频降序，同频按首次出现
func frequentWords(lower string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range tokenize(lower) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := keyTermStopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > frequentCandidates {
		order = order[:frequentCandidates]
	}

	var out []string
	for _, w := range order {
		if counts[w] < 2 {
			break
		}
		out = append(out, w)
		if len(out) == frequentKeep {
			break
		}
	}
	return out
}

// commonTerms 两组关键词的交集，保持 jd 一侧的顺序
func commonTerms(jd, resume []string) []string {
	rs := newOrderedSet()
	rs.add(resume...)
	common := make([]string, 0)
	for _, t := range jd {
		if rs.has(t) {
			common = append(common, t)
		}
	}
	return common
}

// termOverlap |交集| / max(|jd|,|resume|)，任一侧为空时为 0
func termOverlap(jd, resume, common []string) float64 {
	if len(jd) == 0 || len(resume) == 0 {
		return 0
	}
	return float64(len(common)) / float64(max(len(jd), len(resume)))
}
