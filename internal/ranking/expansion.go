package ranking

import "strings"

const (
	// DefaultExpansionLimit 扩展后保留的词条上限
	DefaultExpansionLimit = 50
	minExpandWordLen      = 3
	synonymsPerWord       = 3
)

// Expander 语义扩展：原词 + 同义词 + 领域相关概念
type Expander struct {
	synonyms SynonymProvider
	domain   *DomainKnowledge
}

// NewExpander synonyms 或 domain 为 nil 时分别使用内置表
func NewExpander(synonyms SynonymProvider, domain *DomainKnowledge) *Expander {
	if synonyms == nil {
		synonyms = DefaultThesaurus()
	}
	if domain == nil {
		domain = DefaultDomainKnowledge()
	}
	return &Expander{synonyms: synonyms, domain: domain}
}

// Expand 对长度不小于3的词做扩展，按首次出现去重，最多保留 limit 个词条，以空格连接。
// limit <= 0 时使用 DefaultExpansionLimit。
func (e *Expander) Expand(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultExpansionLimit
	}
	terms := newOrderedSet()
	for _, w := range tokenize(text) {
		if len(w) < minExpandWordLen {
			continue
		}
		terms.add(w)
		syn := e.synonyms.Synonyms(w)
		if len(syn) > synonymsPerWord {
			syn = syn[:synonymsPerWord]
		}
		terms.add(syn...)
		terms.add(e.domain.Related(w)...)
		if len(terms.items) >= limit {
			break
		}
	}
	items := terms.items
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, " ")
}
