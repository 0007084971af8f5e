package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinksExtractorVisibleURLs(t *testing.T) {
	text := "Jane Doe\nhttps://www.linkedin.com/in/janedoe\ngithub.com/janedoe\nhttps://twitter.com/jane."
	rec := NewLinksExtractor().Extract(NewSource(text), nil)

	assert.Equal(t, "https://www.linkedin.com/in/janedoe", rec.LinkedIn)
	assert.Equal(t, "https://github.com/janedoe", rec.Website, "GitHub 作为网站兜底")
	assert.Equal(t, []string{"https://twitter.com/jane", "https://github.com/janedoe"}, rec.Social)
}

func TestLinksExtractorLabels(t *testing.T) {
	text := "LinkedIn: janedoe\nPortfolio: janedoe.dev"
	rec := NewLinksExtractor().Extract(NewSource(text), nil)

	assert.Equal(t, "https://linkedin.com/in/janedoe", rec.LinkedIn)
	assert.Equal(t, "https://janedoe.dev", rec.Website)
	assert.Empty(t, rec.Social)
}

func TestLinksExtractorEmbeddedLinksFillEmptySlots(t *testing.T) {
	embedded := []string{
		"mailto:jane@example.com",
		"https://linkedin.com/in/jane",
		"https://github.com/jane",
		"https://youtube.com/@jane",
		"https://youtube.com/@jane",
	}
	rec := NewLinksExtractor().Extract(NewSource(""), embedded)

	assert.Equal(t, "https://linkedin.com/in/jane", rec.LinkedIn)
	assert.Equal(t, "https://github.com/jane", rec.Website)
	assert.Equal(t, []string{"https://youtube.com/@jane"}, rec.Social, "社交链接按URL去重")
}

func TestLinksExtractorTextTakesPriority(t *testing.T) {
	text := "https://janedoe.dev"
	rec := NewLinksExtractor().Extract(NewSource(text), []string{"https://github.com/other"})
	assert.Equal(t, "https://janedoe.dev", rec.Website)
}

func TestLinksExtractorEmpty(t *testing.T) {
	rec := NewLinksExtractor().Extract(NewSource(""), nil)
	assert.Empty(t, rec.LinkedIn)
	assert.Empty(t, rec.Website)
	assert.NotNil(t, rec.Social)
	assert.Empty(t, rec.Social)
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://example.com", cleanURL("example.com;"))
	assert.Equal(t, "http://example.com", cleanURL("http://example.com!?"))
	assert.Equal(t, "", cleanURL(""))
}
