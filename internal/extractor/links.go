package extractor

import (
	"regexp"
	"strings"

	"resume-ranker-go/internal/types"
)

var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`https?://[^\s)>\]}]+`),
		regexp.MustCompile(`www\.[^\s)>\]}]+`),
		regexp.MustCompile(`linkedin\.com/in/[^\s)>\]}]+`),
		regexp.MustCompile(`github\.com/[^\s)>\]}]+`),
	}

	linkedInLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)linkedin\.com/in/([^\s)>\]}]+)`),
		regexp.MustCompile(`(?i)linkedin:?\s*(\S+)`),
		regexp.MustCompile(`(?i)linkedin profile:?\s*(\S+)`),
	}
	gitHubLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)github\.com/([^\s)>\]}]+)`),
		regexp.MustCompile(`(?i)github:?\s*(\S+)`),
		regexp.MustCompile(`(?i)github profile:?\s*(\S+)`),
	}
	websiteLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)portfolio:?\s*(\S+)`),
		regexp.MustCompile(`(?i)website:?\s*(\S+)`),
		regexp.MustCompile(`(?i)personal website:?\s*(\S+)`),
		regexp.MustCompile(`(?i)portfolio website:?\s*(\S+)`),
	}
)

var (
	socialDomains = []string{
		"twitter.com", "instagram.com", "facebook.com",
		"behance.net", "dribbble.com", "medium.com", "youtube.com",
		"stackoverflow.com", "dev.to", "hashnode.dev",
	}
	embeddedWebsiteHints = []string{"portfolio", "notion.so", "behance.net", "dribbble.com"}
	embeddedSocialHints  = []string{"twitter", "facebook", "instagram", "youtube", "medium"}
)

// LinksExtractor 抽取 LinkedIn、个人网站和社交链接。
// 优先级：可见文本中的域名匹配 > 标签模式 > 文档内嵌超链接，每一步只填充仍为空的字段。
type LinksExtractor struct{}

// NewLinksExtractor 创建链接抽取器
func NewLinksExtractor() *LinksExtractor {
	return &LinksExtractor{}
}

// Extract embedded 为文档内嵌超链接的 URI 列表，可为空
func (e *LinksExtractor) Extract(src Source, embedded []string) types.LinksRecord {
	var linkedin, website string
	var social []string

	// 1. 可见文本中的 URL
	for _, p := range urlPatterns {
		for _, url := range p.FindAllString(src.Text, -1) {
			url = strings.TrimRight(strings.TrimSpace(url), ".,)")
			if strings.HasPrefix(url, "www.") {
				url = "https://" + url
			}
			switch {
			case strings.Contains(url, "linkedin.com"):
				if linkedin == "" {
					linkedin = url
				}
			case strings.Contains(url, "github.com"):
				if website == "" {
					website = url
				}
				social = append(social, url)
			case containsAny(url, socialDomains):
				social = append(social, url)
			case website == "":
				website = url
			}
		}
	}

	// 2. LinkedIn 标签
	if linkedin == "" {
		linkedin = matchLabel(src.Text, linkedInLabelPatterns, "https://linkedin.com/in/")
	}

	// 3. GitHub 与作品集标签
	if website == "" {
		website = matchLabel(src.Text, gitHubLabelPatterns, "https://github.com/")
	}
	if website == "" {
		website = matchLabel(src.Text, websiteLabelPatterns, "https://")
	}

	// 4. 内嵌超链接
	for _, uri := range embedded {
		if !strings.HasPrefix(uri, "http") {
			continue
		}
		switch {
		case strings.Contains(uri, "linkedin.com") && linkedin == "":
			linkedin = uri
		case strings.Contains(uri, "github.com") && website == "":
			website = uri
		case containsAny(uri, embeddedWebsiteHints) && website == "":
			website = uri
		case containsAny(uri, embeddedSocialHints):
			social = append(social, uri)
		}
	}

	// 5. 统一清理，社交链接按完整URL去重
	rec := types.NewLinksRecord()
	rec.LinkedIn = cleanURL(linkedin)
	rec.Website = cleanURL(website)
	seen := make(map[string]struct{}, len(social))
	for _, url := range social {
		url = cleanURL(url)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		rec.Social = append(rec.Social, url)
	}
	return rec
}

func matchLabel(text string, patterns []*regexp.Regexp, prefix string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if strings.HasPrefix(m[1], "http") {
				return m[1]
			}
			return prefix + m[1]
		}
	}
	return ""
}

// cleanURL 去除尾部标点并补全 https 协议
func cleanURL(url string) string {
	if url == "" {
		return ""
	}
	url = strings.TrimRight(url, ".,;:!?")
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return url
}
