package types

// PersonalRecord 候选人基本信息
type PersonalRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EducationRecord 教育经历，抽取器最多返回一条
type EducationRecord struct {
	Degree     string `json:"degree"`
	College    string `json:"college"`
	Graduation string `json:"graduation"`
	CGPA       string `json:"cgpa"`
}

// PreviousEmployer 过往雇主
type PreviousEmployer struct {
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// ExperienceRecord 工作经历聚合记录，各字段由独立的启发式规则填充
type ExperienceRecord struct {
	TotalExperience     string             `json:"total_experience"`
	JobTitle            string             `json:"job_title"`
	CurrentCompany      string             `json:"current_company"`
	EmploymentType      string             `json:"employment_type"`
	EmploymentDuration  string             `json:"employment_duration"`
	JobResponsibilities string             `json:"job_responsibilities"`
	PreviousEmployers   []PreviousEmployer `json:"previous_employers"`
	Achievements        string             `json:"achievements"`
}

// NewExperienceRecord 返回所有字段为默认值的经历记录（切片非nil）
func NewExperienceRecord() ExperienceRecord {
	return ExperienceRecord{PreviousEmployers: []PreviousEmployer{}}
}

// LinksRecord 链接信息
type LinksRecord struct {
	LinkedIn string   `json:"linkedin"`
	Website  string   `json:"website"`
	Social   []string `json:"social"`
}

// NewLinksRecord 返回空链接记录
func NewLinksRecord() LinksRecord {
	return LinksRecord{Social: []string{}}
}

// ProjectRecord 项目经历
type ProjectRecord struct {
	Title       string `json:"title"`
	TechStack   string `json:"tech_stack"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// CandidateProfile 简历解析后的结构化画像
type CandidateProfile struct {
	PersonalDetails PersonalRecord    `json:"personal_details"`
	Education       []EducationRecord `json:"education"`
	Experience      ExperienceRecord  `json:"experience"`
	Skills          []string          `json:"skills"`
	Projects        []ProjectRecord   `json:"projects"`
	Links           LinksRecord       `json:"links"`
}

// NewCandidateProfile 返回一个空画像，所有切片字段均已初始化
func NewCandidateProfile() CandidateProfile {
	return CandidateProfile{
		Education:  []EducationRecord{},
		Experience: NewExperienceRecord(),
		Skills:     []string{},
		Projects:   []ProjectRecord{},
		Links:      NewLinksRecord(),
	}
}

// SimilarityResult 三路相似度信号及其组合结果，分数均已缩放到[0,1]
type SimilarityResult struct {
	FinalScore       float64  `json:"final_score"`
	SemanticScore    float64  `json:"semantic_score"`
	TFIDFScore       float64  `json:"tfidf_score"`
	TermOverlapScore float64  `json:"term_overlap_score"`
	CommonTerms      []string `json:"common_terms"`
}

// Highlight JD句子与简历句子的证据对
type Highlight struct {
	Term          string `json:"term"`
	JDContext     string `json:"jd_context"`
	ResumeContext string `json:"resume_context"`
}

// DetailedScores 各信号分数明细
type DetailedScores struct {
	Semantic    float64 `json:"semantic"`
	TFIDF       float64 `json:"tfidf"`
	TermOverlap float64 `json:"term_overlap"`
}

// RankingResult 对外暴露的排序结果
type RankingResult struct {
	Score          float64        `json:"score"`
	Reasoning      string         `json:"reasoning"`
	Highlights     []Highlight    `json:"highlights"`
	DetailedScores DetailedScores `json:"detailed_scores"`
}
