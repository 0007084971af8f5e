package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillsExtractorUnionSorted(t *testing.T) {
	src := NewSource("Skills: Python, Go, Docker\n- Deployed services on Kubernetes")
	got := NewSkillsExtractor(nil).Extract(src)
	assert.Equal(t, []string{"Docker", "Go", "Kubernetes", "Python"}, got)
}

func TestSkillsExtractorSymbolKeywords(t *testing.T) {
	got := NewSkillsExtractor(nil).Extract(NewSource("Languages: C++, C#"))
	assert.Contains(t, got, "C++")
	assert.Contains(t, got, "C#")
}

func TestSkillsExtractorLabelTokens(t *testing.T) {
	// 不在词表中的标签项也会被收录
	got := NewSkillsExtractor(nil).Extract(NewSource("Tools: Jira; Confluence"))
	assert.Contains(t, got, "Jira")
	assert.Contains(t, got, "Confluence")
}

func TestSkillsExtractorLengthAfterStripping(t *testing.T) {
	got := NewSkillsExtractor(nil).Extract(NewSource("Tools: a!!, b@@@, Jira!!, " + strings.Repeat("x", 48) + "!!!"))
	assert.NotContains(t, got, "A")
	assert.NotContains(t, got, "B")
	assert.Contains(t, got, "Jira")
	assert.Contains(t, got, TitleCase(strings.Repeat("x", 48)), "去掉符号后不足50个字符的项保留")
}

func TestSkillsExtractorCustomLexicon(t *testing.T) {
	lex := NewLexicon(nil, []string{"erlang", "erlang"})
	got := NewSkillsExtractor(lex).Extract(NewSource("Built a chat server in Erlang"))
	assert.Equal(t, []string{"Erlang"}, got)
}

func TestSkillsExtractorEmpty(t *testing.T) {
	got := NewSkillsExtractor(nil).Extract(NewSource(""))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
