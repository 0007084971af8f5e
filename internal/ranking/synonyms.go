package ranking

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// SynonymProvider 同义词查询能力
type SynonymProvider interface {
	// Synonyms 返回 word 的同义词，顺序稳定，未收录时返回空
	Synonyms(word string) []string
}

// StaticSynonyms 基于内存映射的同义词表
type StaticSynonyms map[string][]string

// Synonyms 实现 SynonymProvider
func (s StaticSynonyms) Synonyms(word string) []string {
	return s[word]
}

// NoSynonyms 不做同义词扩展
type NoSynonyms struct{}

// Synonyms 实现 SynonymProvider
func (NoSynonyms) Synonyms(string) []string { return nil }

// thesaurusFile 同义词文件格式
type thesaurusFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// Thesaurus 从 YAML 文件加载的只读同义词表
type Thesaurus struct {
	words map[string][]string
}

// Synonyms 实现 SynonymProvider
func (t *Thesaurus) Synonyms(word string) []string {
	return t.words[word]
}

// Len 词条数量
func (t *Thesaurus) Len() int {
	return len(t.words)
}

// ParseThesaurus 解析 YAML 同义词表，键和值统一转为小写，值中去掉与键相同的项
func ParseThesaurus(data []byte) (*Thesaurus, error) {
	var f thesaurusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析同义词表失败: %w", err)
	}
	t := &Thesaurus{words: make(map[string][]string, len(f.Synonyms))}
	for k, vs := range f.Synonyms {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		seen := map[string]struct{}{key: {}}
		var out []string
		for _, v := range vs {
			v = strings.ToLower(strings.TrimSpace(v))
			if _, dup := seen[v]; dup || v == "" {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
		t.words[key] = out
	}
	return t, nil
}

// LoadThesaurus 从文件加载同义词表
func LoadThesaurus(path string) (*Thesaurus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取同义词表 %s 失败: %w", path, err)
	}
	return ParseThesaurus(data)
}

//go:embed assets/thesaurus.yaml
var defaultThesaurusYAML []byte

var (
	defaultThesaurusOnce sync.Once
	defaultThesaurus     *Thesaurus
)

// DefaultThesaurus 内置同义词表
func DefaultThesaurus() *Thesaurus {
	defaultThesaurusOnce.Do(func() {
		t, err := ParseThesaurus(defaultThesaurusYAML)
		if err != nil {
			panic(fmt.Sprintf("内置同义词表损坏: %v", err))
		}
		defaultThesaurus = t
	})
	return defaultThesaurus
}
