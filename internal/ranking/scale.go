package ranking

import "math"

// Weights 三路信号的组合权重
type Weights struct {
	Semantic    float64 `yaml:"semantic"`
	TFIDF       float64 `yaml:"tfidf"`
	TermOverlap float64 `yaml:"term_overlap"`
}

// DefaultWeights 语义 0.5、TF-IDF 0.3、关键词重叠 0.2
func DefaultWeights() Weights {
	return Weights{Semantic: 0.5, TFIDF: 0.3, TermOverlap: 0.2}
}

// Combine 加权求和
func (w Weights) Combine(semantic, tfidf, overlap float64) float64 {
	return w.Semantic*semantic + w.TFIDF*tfidf + w.TermOverlap*overlap
}

// Scale 分数缩放参数
type Scale struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Power float64 `yaml:"power"`
}

// DefaultScale 原始相似度通常落在 [0,0.4]，映射到 [0,1] 并做 1.2 次幂
func DefaultScale() Scale {
	return Scale{Min: 0, Max: 0.4, Power: 1.2}
}

// Apply 按参数缩放
func (s Scale) Apply(raw float64) float64 {
	return ScaleScore(raw, s.Min, s.Max, s.Power)
}

// ScaleScore 截断到 [minVal,maxVal] 后归一化到 [0,1]，再取 power 次幂，保留4位小数。
// maxVal <= minVal 时返回 0。
func ScaleScore(raw, minVal, maxVal, power float64) float64 {
	if math.IsNaN(raw) || maxVal <= minVal {
		return 0
	}
	clipped := math.Max(math.Min(raw, maxVal), minVal)
	norm := (clipped - minVal) / (maxVal - minVal)
	return round4(math.Pow(norm, power))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
