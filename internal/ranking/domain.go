package ranking

import (
	"regexp"
	"strings"
	"sync"
)

// DomainEntry 领域知识表中的一项
type DomainEntry struct {
	Term    string
	Related []string
}

// DomainKnowledge 只读的领域知识表。构造后不再修改，可在多个 goroutine 间共享。
type DomainKnowledge struct {
	entries    []DomainEntry
	index      map[string][]string
	vocabulary []string
	patterns   []*regexp.Regexp
}

// NewDomainKnowledge 按给定顺序构造领域知识表，重复术语以后出现者为准
func NewDomainKnowledge(entries []DomainEntry) *DomainKnowledge {
	dk := &DomainKnowledge{
		index: make(map[string][]string, len(entries)),
	}
	for _, e := range entries {
		term := strings.ToLower(strings.TrimSpace(e.Term))
		if term == "" {
			continue
		}
		related := make([]string, 0, len(e.Related))
		for _, r := range e.Related {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
				related = append(related, r)
			}
		}
		if _, ok := dk.index[term]; !ok {
			dk.entries = append(dk.entries, DomainEntry{Term: term})
		}
		dk.index[term] = related
	}
	for i := range dk.entries {
		dk.entries[i].Related = dk.index[dk.entries[i].Term]
	}

	// 词汇表：所有相关概念，按首次出现顺序去重
	seen := make(map[string]struct{})
	for _, e := range dk.entries {
		for _, r := range e.Related {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			dk.vocabulary = append(dk.vocabulary, r)
			dk.patterns = append(dk.patterns, boundaryPattern(r))
		}
	}
	return dk
}

var (
	defaultDomainOnce sync.Once
	defaultDomain     *DomainKnowledge
)

// DefaultDomainKnowledge 内置领域知识表，进程内只构造一次
func DefaultDomainKnowledge() *DomainKnowledge {
	defaultDomainOnce.Do(func() {
		defaultDomain = NewDomainKnowledge(defaultDomainEntries)
	})
	return defaultDomain
}

// Related 返回术语的相关概念，未收录时返回 nil
func (dk *DomainKnowledge) Related(term string) []string {
	return dk.index[term]
}

// Len 术语数量
func (dk *DomainKnowledge) Len() int {
	return len(dk.entries)
}

// Vocabulary 所有相关概念（去重，有序）
func (dk *DomainKnowledge) Vocabulary() []string {
	out := make([]string, len(dk.vocabulary))
	copy(out, dk.vocabulary)
	return out
}

// matchVocabulary 返回在小写文本中按词边界出现的概念
func (dk *DomainKnowledge) matchVocabulary(lower string) []string {
	var found []string
	for i, p := range dk.patterns {
		if p.MatchString(lower) {
			found = append(found, dk.vocabulary[i])
		}
	}
	return found
}

// boundaryPattern 仅在首尾为单词字符时加 \b，"node.js"、"c++" 之类也能命中
func boundaryPattern(term string) *regexp.Regexp {
	var b strings.Builder
	if term != "" && isWordByte(term[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if term != "" && isWordByte(term[len(term)-1]) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
