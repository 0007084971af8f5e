package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 任意输入下所有抽取器都返回结构完整的记录
func TestExtractorsAreTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\n\n",
		"@@@ ### 12345 ((( ]]]",
		"简历 张三 电话 13800000000",
		"EXPERIENCE\nRESPONSIBILITIES\n",
		"Projects\n- \n|\n()",
		strings.Repeat("Education B.Tech 2020 - ", 200),
	}

	personal := NewPersonalExtractor()
	education := NewEducationExtractor(nil)
	experience := NewExperienceExtractor()
	skills := NewSkillsExtractor(nil)
	links := NewLinksExtractor()
	projects := NewProjectsExtractor(nil)

	for _, in := range inputs {
		src := NewSource(in)
		require.NotPanics(t, func() {
			_ = personal.Extract(src)

			edu := education.Extract(src)
			assert.NotNil(t, edu)
			assert.LessOrEqual(t, len(edu), 1)

			exp := experience.Extract(src)
			assert.NotNil(t, exp.PreviousEmployers)

			assert.NotNil(t, skills.Extract(src))

			l := links.Extract(src, nil)
			assert.NotNil(t, l.Social)

			assert.NotNil(t, projects.Extract(src))
		}, "输入: %q", in)
	}
}
