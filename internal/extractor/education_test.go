package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEducationExtractorDegreeLine(t *testing.T) {
	src := NewSource("Education\nB.Tech Computer Science - ABC Institute of Technology, 2021, CGPA: 8.7")
	got := NewEducationExtractor(nil).Extract(src)

	require.Len(t, got, 1)
	assert.Equal(t, "B.TECH", got[0].Degree)
	assert.Equal(t, "2021", got[0].Graduation)
	assert.Equal(t, "8.7", got[0].CGPA)
	assert.Contains(t, got[0].College, "Institute")
	assert.Equal(t, "Abc Institute Of Technology", got[0].College)
}

func TestEducationExtractorCollegeFallbacks(t *testing.T) {
	t.Run("from 之后的院校名", func(t *testing.T) {
		got := NewEducationExtractor(nil).Extract(NewSource("Master of Science from Stanford University, 2019"))
		require.Len(t, got, 1)
		assert.Equal(t, "MASTER OF SCIENCE", got[0].Degree)
		assert.Equal(t, "Stanford University", got[0].College)
		assert.Equal(t, "2019", got[0].Graduation)
	})

	t.Run("下一行为院校名", func(t *testing.T) {
		got := NewEducationExtractor(nil).Extract(NewSource("Bachelor of Science\nUniversity of Mumbai\n2018"))
		require.Len(t, got, 1)
		assert.Equal(t, "BACHELOR OF SCIENCE", got[0].Degree)
		assert.Equal(t, "University Of Mumbai", got[0].College)
		assert.Equal(t, "2018", got[0].Graduation, "年份应从后续行中找到")
	})
}

func TestEducationExtractorCGPAPatterns(t *testing.T) {
	cases := map[string]string{
		"MBA, XYZ College, 2020, 3.6/4":        "3.6",
		"MBA, XYZ College, 2020, 9.1 CGPA":     "9.1",
		"MBA, XYZ College, 2020, 7 out of 10":  "7",
		"MBA, XYZ College, 2020, GPA - 3.9":    "3.9",
		"MBA, XYZ College, 2020, no grade info": "",
	}
	e := NewEducationExtractor(nil)
	for line, want := range cases {
		got := e.Extract(NewSource(line))
		require.Len(t, got, 1, line)
		assert.Equal(t, want, got[0].CGPA, line)
	}
}

func TestEducationExtractorOnlyFirstEntry(t *testing.T) {
	text := "Education\nM.Tech, IIT Bombay, 2022\nB.Tech, NIT Trichy, 2020"
	got := NewEducationExtractor(nil).Extract(NewSource(text))
	require.Len(t, got, 1)
	assert.Equal(t, "M.TECH", got[0].Degree)
	assert.Equal(t, "2022", got[0].Graduation)
}

func TestEducationExtractorEmpty(t *testing.T) {
	e := NewEducationExtractor(nil)

	got := e.Extract(NewSource("Nothing relevant here"))
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// 有学位但既没有院校也没有年份时不保留
	got = e.Extract(NewSource("MBA"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
