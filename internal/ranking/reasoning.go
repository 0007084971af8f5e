package ranking

import (
	"fmt"
	"strings"

	"resume-ranker-go/internal/types"
)

const (
	maxHighlightTerms  = 10
	maxHighlights      = 5
	maxKeyMatches      = 5
	minContextLen      = 20
	maxContextLen      = 150
	emptyTextReasoning = "Unable to process empty text"
	reasoningSeparator = " | "
	contextEllipsis    = "..."
)

// FindMatchingHighlights 对共同关键词（最多10个）在双方文本中找包含该词的第一句（长度大于20），
// 双方都找到时生成一条高亮，最多5条
func FindMatchingHighlights(jd, resume string, domain *DomainKnowledge) []types.Highlight {
	common := commonTerms(ExtractKeyTerms(jd, domain), ExtractKeyTerms(resume, domain))
	if len(common) > maxHighlightTerms {
		common = common[:maxHighlightTerms]
	}
	jdSentences := splitSentences(jd)
	resumeSentences := splitSentences(resume)

	highlights := make([]types.Highlight, 0, maxHighlights)
	for _, term := range common {
		jdCtx, ok := sentenceWith(jdSentences, term)
		if !ok {
			continue
		}
		resumeCtx, ok := sentenceWith(resumeSentences, term)
		if !ok {
			continue
		}
		highlights = append(highlights, types.Highlight{
			Term:          term,
			JDContext:     truncateContext(jdCtx),
			ResumeContext: truncateContext(resumeCtx),
		})
		if len(highlights) == maxHighlights {
			break
		}
	}
	return highlights
}

func sentenceWith(sentences []string, term string) (string, bool) {
	term = strings.ToLower(term)
	for _, s := range sentences {
		if len(s) > minContextLen && strings.Contains(strings.ToLower(s), term) {
			return s, true
		}
	}
	return "", false
}

func truncateContext(s string) string {
	if len(s) <= maxContextLen {
		return s
	}
	// 按字符截断，避免切断多字节字符
	r := []rune(s)
	if len(r) <= maxContextLen {
		return s
	}
	return string(r[:maxContextLen]) + contextEllipsis
}

// GenerateReasoning 根据相似度结果生成可读的推理说明，各段以 " | " 连接
func GenerateReasoning(result types.SimilarityResult, embedderName string) string {
	parts := make([]string, 0, 6)

	switch {
	case result.FinalScore >= 0.8:
		parts = append(parts, "Excellent semantic match with high conceptual alignment")
	case result.FinalScore >= 0.6:
		parts = append(parts, "Strong semantic match with good domain relevance")
	case result.FinalScore >= 0.4:
		parts = append(parts, "Moderate semantic match with some relevant overlap")
	default:
		parts = append(parts, "Low semantic match with limited conceptual alignment")
	}

	parts = append(parts,
		fmt.Sprintf("Semantic similarity: %.3f (%s embeddings)", result.SemanticScore, embedderName),
		fmt.Sprintf("TF-IDF similarity: %.3f (expanded terms)", result.TFIDFScore),
		fmt.Sprintf("Term overlap: %.3f (%d common terms)", result.TermOverlapScore, len(result.CommonTerms)),
	)

	if len(result.CommonTerms) > 0 {
		top := result.CommonTerms
		if len(top) > maxKeyMatches {
			top = top[:maxKeyMatches]
		}
		parts = append(parts, "Key matches: "+strings.Join(top, ", "))
	}

	switch {
	case result.TermOverlapScore > 0.5:
		parts = append(parts, "Strong domain knowledge alignment detected")
	case result.TermOverlapScore > 0.25:
		parts = append(parts, "Moderate domain relevance")
	default:
		parts = append(parts, "Limited domain overlap")
	}

	return strings.Join(parts, reasoningSeparator)
}
