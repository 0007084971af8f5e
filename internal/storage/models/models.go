package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Job 岗位描述表，字段与 HR 录入表单一一对应
type Job struct {
	JobID            string    `gorm:"type:char(36);primaryKey" json:"job_id"`
	Title            string    `gorm:"type:varchar(255);not null" json:"job_title"`
	Company          string    `gorm:"type:varchar(255)" json:"company_name"`
	EmploymentType   string    `gorm:"type:varchar(100)" json:"employment_type"`
	Qualification    string    `gorm:"type:varchar(255)" json:"qualification"`
	Location         string    `gorm:"type:varchar(255)" json:"location"`
	WorkMode         string    `gorm:"type:varchar(100)" json:"work_mode"`
	AboutCompany     string    `gorm:"type:text" json:"about_company"`
	Summary          string    `gorm:"type:text" json:"job_summary"`
	Responsibilities string    `gorm:"type:text" json:"responsibilities"`
	ExperienceSkills string    `gorm:"type:text" json:"experience_skills"`
	NiceToHaveSkills string    `gorm:"type:text" json:"nice_to_have_skills"`
	WhatWeOffer      string    `gorm:"type:text" json:"what_to_offer"`
	Openings         int       `gorm:"default:1" json:"no_of_openings"`
	GithubRequired   bool      `gorm:"default:false" json:"github_required"`
	Status           string    `gorm:"type:varchar(50);default:'open';index:idx_jobs_status" json:"status"`
	CreatedAt        time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// Text 把结构化岗位描述渲染成排序使用的 JD 正文，空字段不输出
func (j Job) Text() string {
	var b strings.Builder
	write := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if label == "" {
			b.WriteString(value)
			return
		}
		fmt.Fprintf(&b, "%s: %s", label, value)
	}

	write("", j.Title)
	write("Company", j.Company)
	write("Employment Type", j.EmploymentType)
	write("Qualification", j.Qualification)
	write("Location", j.Location)
	write("Work Mode", j.WorkMode)
	write("About Company", j.AboutCompany)
	write("Job Summary", j.Summary)
	write("Responsibilities", j.Responsibilities)
	write("Experience and Skills", j.ExperienceSkills)
	write("Nice to Have Skills", j.NiceToHaveSkills)
	write("What We Offer", j.WhatWeOffer)
	if j.GithubRequired {
		write("", "GitHub profile required")
	}
	return b.String()
}

// Application 简历投递记录
type Application struct {
	ApplicationID    string         `gorm:"type:char(36);primaryKey" json:"application_id"`
	JobID            string         `gorm:"type:char(36);not null;index:idx_app_job_status,priority:1" json:"job_id"`
	OriginalFilename string         `gorm:"type:varchar(255)" json:"original_filename"`
	ObjectKey        string         `gorm:"type:varchar(1024)" json:"object_key"`
	FileMD5          string         `gorm:"type:char(32);index:idx_app_file_md5" json:"file_md5"`
	CandidateName    string         `gorm:"type:varchar(255)" json:"candidate_name"`
	CandidateEmail   string         `gorm:"type:varchar(255)" json:"candidate_email"`
	CandidatePhone   string         `gorm:"type:varchar(50)" json:"candidate_phone"`
	ProfileJSON      datatypes.JSON `gorm:"type:json" json:"profile,omitempty"`
	ResumeText       string         `gorm:"type:longtext" json:"-"`
	Status           string         `gorm:"type:varchar(50);default:'uploaded';index:idx_app_job_status,priority:2" json:"status"`
	FailureReason    string         `gorm:"type:text" json:"failure_reason,omitempty"`
	ParserVersion    string         `gorm:"type:varchar(50)" json:"parser_version,omitempty"`
	ParsedAt         *time.Time     `gorm:"type:datetime(6)" json:"parsed_at,omitempty"`
	DownloadURL      string         `gorm:"-" json:"download_url,omitempty"` // 原件临时下载链接，读取时生成
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// Ranking 岗位与投递的排序结果，同一对 (job, application) 只保留最新一次
type Ranking struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	JobID            string         `gorm:"type:char(36);not null;uniqueIndex:uq_ranking_job_app,priority:1" json:"job_id"`
	ApplicationID    string         `gorm:"type:char(36);not null;uniqueIndex:uq_ranking_job_app,priority:2" json:"application_id"`
	Score            float64        `gorm:"not null;index:idx_ranking_score" json:"score"`
	SemanticScore    float64        `json:"semantic"`
	TFIDFScore       float64        `gorm:"column:tfidf_score" json:"tfidf"`
	TermOverlapScore float64        `json:"term_overlap"`
	Reasoning        string         `gorm:"type:text" json:"reasoning"`
	HighlightsJSON   datatypes.JSON `gorm:"type:json" json:"highlights"`
	Embedder         string         `gorm:"type:varchar(100)" json:"embedder"`
	RankedAt         time.Time      `gorm:"type:datetime(6)" json:"ranked_at"`
}

func (Ranking) TableName() string {
	return "rankings"
}

// ToJSON 把任意值序列化为 datatypes.JSON
func ToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// StringToJSON 字符串转 datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}
