package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/types"
)

const experienceSample = `Jane Doe
Summary
Work Experience
Software Engineer at Acme Corp
Jan 2020 - Present | Full-time
Key Responsibilities:
Built REST APIs in Go
Led migration to Kubernetes

Data Analyst at Beta Labs
2017 - 2019`

func TestExperienceExtractorStopsAfterResponsibilities(t *testing.T) {
	e := NewExperienceExtractor()
	rec, state := e.scan(NewSource(experienceSample).Lines)

	assert.Equal(t, Done, state, "收集到职责后应立即结束扫描")
	assert.Equal(t, "Engineer At Acme Corp", rec.JobTitle)
	assert.Equal(t, "Acme Corp", rec.CurrentCompany)
	assert.Equal(t, "Full-time", rec.EmploymentType)
	assert.Equal(t, "Jan 2020 - Present", rec.EmploymentDuration)
	assert.Equal(t, "Built REST APIs in Go Led migration to Kubernetes", rec.JobResponsibilities)
	assert.NotNil(t, rec.PreviousEmployers)
	assert.Empty(t, rec.PreviousEmployers, "结束后的雇主不应被扫描到")
}

func TestExperienceExtractorContinueAfterResponsibilities(t *testing.T) {
	e := NewExperienceExtractor(WithContinueAfterResponsibilities(true))
	rec, state := e.scan(NewSource(experienceSample).Lines)

	assert.Equal(t, InSection, state)
	assert.Equal(t, "Jan 2020 - Present", rec.EmploymentDuration, "第一个时间区间生效")
	require.Len(t, rec.PreviousEmployers, 1)
	assert.Equal(t, types.PreviousEmployer{Company: "Beta Labs"}, rec.PreviousEmployers[0])
}

func TestExperienceExtractorEmptyResponsibilitiesReturnsToSection(t *testing.T) {
	text := "Experience\nDuties\n\nFreelance designer for Gamma Studio"
	rec, state := NewExperienceExtractor().scan(NewSource(text).Lines)

	assert.Equal(t, InSection, state)
	assert.Empty(t, rec.JobResponsibilities)
	assert.Equal(t, "Freelance", rec.EmploymentType)
	assert.Equal(t, "Gamma Studio", rec.CurrentCompany)
}

func TestExperienceExtractorExtraFields(t *testing.T) {
	text := `Professional Experience
Total: 4 yrs
Backend Developer with Orion Systems
Awarded Employee of the Year 2021
Won internal hackathon for search tooling`

	rec := NewExperienceExtractor().Extract(NewSource(text))
	assert.Equal(t, "4 years", rec.TotalExperience)
	assert.Equal(t, "Orion Systems", rec.CurrentCompany)
	assert.Equal(t, "Awarded Employee of the Year 2021; Won internal hackathon for search tooling", rec.Achievements)
}

func TestExperienceExtractorEmploymentTypeLastWins(t *testing.T) {
	text := "Experience\nContract role\nPart-time tutor"
	rec := NewExperienceExtractor().Extract(NewSource(text))
	assert.Equal(t, "Part-time", rec.EmploymentType)
}

func TestExperienceExtractorFallbackTitle(t *testing.T) {
	// 章节内没有职位词，职位从章节外的简介行兜底
	text := "Jane Doe\nSenior Python developer with passion\nExperience\nOrion Systems"
	rec := NewExperienceExtractor().Extract(NewSource(text))
	assert.Equal(t, "Python Developer With", rec.JobTitle)
	assert.Empty(t, rec.CurrentCompany)
}

func TestExperienceExtractorNoSection(t *testing.T) {
	for _, text := range []string{
		"",
		"Jane Doe\nSenior Python developer with passion\nSkills: Go",
		"Data analyst and project manager\nContract, full-time 2019 - 2023",
	} {
		rec := NewExperienceExtractor().Extract(NewSource(text))
		assert.Equal(t, types.NewExperienceRecord(), rec, "没有经历章节时应返回默认记录: %q", text)
	}
}
