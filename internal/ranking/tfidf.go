package ranking

import (
	"math"
	"sort"
	"strings"
)

// TFIDFConfig 向量化参数
type TFIDFConfig struct {
	MaxFeatures int     // 词表上限，按语料内总词频保留
	MinDF       int     // 最少出现在几篇文档中
	MaxDF       float64 // 文档频率上限（比例），df > MaxDF*文档数 的词被丢弃
	NGramMax    int     // 最大 n-gram 长度

	// CeilMaxDF 为 true 时上限放宽为 ceil(MaxDF*文档数)。
	// 只有两篇文档时，默认规则会丢掉所有共有词，相似度恒为 0
	CeilMaxDF bool
}

// DefaultTFIDFConfig 默认参数：1000 个特征，一元和二元词组
func DefaultTFIDFConfig() TFIDFConfig {
	return TFIDFConfig{MaxFeatures: 1000, MinDF: 1, MaxDF: 0.95, NGramMax: 2}
}

// tfidfTerms 切词、去停用词并生成 n-gram
func tfidfTerms(text string, ngramMax int) []string {
	var words []string
	for _, w := range tfidfToken.FindAllString(strings.ToLower(text), -1) {
		if _, stop := tfidfStopWords[w]; !stop {
			words = append(words, w)
		}
	}
	terms := make([]string, 0, len(words)*ngramMax)
	terms = append(terms, words...)
	for n := 2; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

// tfidfVectors 在给定语料上拟合并返回每篇文档的 L2 归一化向量（按词表下标的稀疏表示）
func tfidfVectors(docs []string, cfg TFIDFConfig) []map[int]float64 {
	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, d := range docs {
		counts[i] = make(map[string]int)
		for _, t := range tfidfTerms(d, cfg.NGramMax) {
			counts[i][t]++
			total[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}

	maxDF := cfg.MaxDF * float64(n)
	if cfg.CeilMaxDF {
		maxDF = math.Ceil(maxDF)
	}
	var vocab []string
	for t, c := range df {
		if c >= cfg.MinDF && float64(c) <= maxDF {
			vocab = append(vocab, t)
		}
	}
	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if cfg.MaxFeatures > 0 && len(vocab) > cfg.MaxFeatures {
		vocab = vocab[:cfg.MaxFeatures]
	}
	sort.Strings(vocab)

	vectors := make([]map[int]float64, n)
	for i := range docs {
		vec := make(map[int]float64)
		var norm float64
		for j, t := range vocab {
			tf := counts[i][t]
			if tf == 0 {
				continue
			}
			// 平滑 idf
			idf := math.Log(float64(1+n)/float64(1+df[t])) + 1
			w := float64(tf) * idf
			vec[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// tfidfCosine 两篇文档在共同拟合的 TF-IDF 空间中的余弦相似度
func tfidfCosine(a, b string, cfg TFIDFConfig) float64 {
	vecs := tfidfVectors([]string{a, b}, cfg)
	return tfidfDot(vecs[0], vecs[1])
}

func tfidfDot(a, b map[int]float64) float64 {
	var dot float64
	for j, w := range a {
		dot += w * b[j]
	}
	return dot
}
