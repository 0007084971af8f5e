package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/types"
)

func TestProjectsExtractor(t *testing.T) {
	text := `Projects
Resume Ranker | Go, Redis | Jan 2023 - Mar 2023
- Built an explainable ranking engine
- Cached embeddings in Redis

Portfolio Site (React, Tailwind)
Personal website with blog.
Education
B.Tech, XYZ College, 2020`

	got := NewProjectsExtractor(nil).Extract(NewSource(text))
	require.Len(t, got, 2)
	assert.Equal(t, types.ProjectRecord{
		Title:       "Resume Ranker",
		TechStack:   "Go, Redis",
		Description: "Built an explainable ranking engine Cached embeddings in Redis",
		Duration:    "Jan 2023 - Mar 2023",
	}, got[0])
	assert.Equal(t, types.ProjectRecord{
		Title:       "Portfolio Site",
		TechStack:   "React, Tailwind",
		Description: "Personal website with blog.",
	}, got[1])
}

func TestProjectsExtractorTechLabelAndLexiconFallback(t *testing.T) {
	text := `Academic Projects:
Chat App
- Built with Django and PostgreSQL

Weather Bot
Tech Stack: Python, Telegram API`

	got := NewProjectsExtractor(nil).Extract(NewSource(text))
	require.Len(t, got, 2)
	assert.Equal(t, "Chat App", got[0].Title)
	assert.Equal(t, "Django, Postgresql", got[0].TechStack, "未标注技术栈时使用词表匹配")
	assert.Equal(t, "Weather Bot", got[1].Title)
	assert.Equal(t, "Python, Telegram API", got[1].TechStack)
}

func TestProjectsExtractorNoSection(t *testing.T) {
	got := NewProjectsExtractor(nil).Extract(NewSource("Skills: Go"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
