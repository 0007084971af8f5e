package extractor

import (
	"regexp"
	"strings"
	"sync"
)

// degreeKeywords 学位关键词，顺序即匹配优先级
var degreeKeywords = []string{
	// 学士
	"bachelor of arts", "bachelor of science", "bachelor of commerce", "bachelor of business administration", "bachelor of computer applications",
	"bachelor of fine arts", "bachelor of design", "bachelor of architecture", "bachelor of education", "bachelor of engineering", "bachelor of technology",
	"ba", "b.a", "bsc", "b.sc", "b.com", "bcom", "bba", "bbm", "bca", "bfa", "b.des", "b.arch", "b.ed", "b.e", "be", "b.tech", "btech",

	// 硕士
	"master of arts", "master of science", "master of commerce", "master of business administration", "master of computer applications",
	"master of fine arts", "master of design", "master of engineering", "master of technology", "master of philosophy", "master of laws",
	"ma", "m.a", "msc", "m.sc", "m.com", "mcom", "mba", "mib", "mfa", "m.des", "m.e", "me", "m.tech", "mtech", "ms", "m.s", "mphil", "m.phil", "llm", "ll.m",

	// 博士
	"doctor of philosophy", "phd", "ph.d", "dphil", "dsc", "d.litt", "doctorate",

	// 医学
	"bachelor of medicine, bachelor of surgery", "mbbs", "bachelor of dental surgery", "bds", "bachelor of ayurvedic medicine and surgery", "bams",
	"bachelor of homeopathic medicine and surgery", "bhms", "doctor of medicine", "md", "master of surgery", "ms", "mds",

	// 药学与康复
	"bachelor of pharmacy", "b.pharm", "bpharm", "master of pharmacy", "m.pharm", "mpharm", "bachelor of physiotherapy", "bpt", "master of physiotherapy", "mpt",

	// 法学
	"bachelor of laws", "llb", "b.l", "master of laws", "llm", "ll.m",

	// 教育与师范
	"diploma in education", "d.ed", "bachelor of physical education", "bped", "master of physical education", "mped", "ttc", "b.ed", "m.ed",

	// 管理类文凭
	"pgdm", "post graduate diploma in management", "pgdba", "pgpm", "pgp", "pgpba", "pgdhrm", "mhrm",

	// 建筑与规划
	"bachelor of planning", "b.plan", "master of planning", "m.plan",

	// 职业教育与证书
	"diploma", "advanced diploma", "postgraduate diploma", "certificate course", "vocational course",

	// 财会
	"chartered accountant", "ca", "icai", "company secretary", "cs", "cfa", "cpa", "acca", "icwa", "cma", "frm", "actuary",

	// 远程教育 / MOOC
	"nios", "iti", "polytechnic", "ignou", "iim", "iit", "nptel", "coursera", "edx", "udemy", "google certification",
}

// techKeywords 技能词表
var techKeywords = []string{
	// 编程语言
	"python", "java", "c++", "c#", "html", "css", "javascript", "typescript", "r", "sql", "bash", "shell", "powershell",
	"php", "ruby", "go", "rust", "swift", "kotlin", "scala", "perl", "matlab", "sas", "stata", "spss",

	// Web 开发
	"react", "angular", "vue", "node.js", "express", "flask", "django", "fastapi", "spring", "laravel", "asp.net",
	"bootstrap", "tailwind", "sass", "less", "webpack", "babel", "npm", "yarn", "jquery", "ajax",

	// 数据科学与机器学习
	"pandas", "numpy", "scipy", "sklearn", "scikit-learn", "matplotlib", "seaborn", "plotly", "tensorflow", "keras", "pytorch",
	"openai", "huggingface", "nltk", "spacy", "gensim", "xgboost", "lightgbm", "catboost", "mlflow", "optuna",
	"jupyter", "colab", "databricks", "spark", "hadoop", "hive", "pig", "kafka", "airflow", "dbt",

	// 工具与IDE
	"git", "github", "gitlab", "bitbucket", "vscode", "intellij", "eclipse", "sublime", "vim", "emacs",
	"postman", "insomnia", "swagger", "docker", "kubernetes", "jenkins", "travis", "circleci", "gitlab ci",

	// BI 与分析
	"excel", "power bi", "tableau", "looker", "qlikview", "qliksense", "superset", "metabase", "grafana",
	"alteryx", "knime", "orange", "rapidminer", "weka", "r studio",

	// UI/UX 设计
	"figma", "canva", "photoshop", "illustrator", "sketch", "xd", "adobe xd", "invision", "zeplin", "framer",
	"webflow", "wix", "wordpress", "elementor", "brizy", "oxygen builder", "shopify", "woocommerce",

	// 数据库
	"mysql", "postgresql", "mongodb", "firebase", "sqlite", "oracle", "sql server", "db2", "redis", "elasticsearch",
	"snowflake", "redshift", "bigquery", "dynamodb", "cassandra", "neo4j", "influxdb",

	// DevOps 与云
	"aws", "azure", "gcp", "terraform", "ansible", "chef", "puppet", "prometheus", "elk", "logstash",
	"nginx", "apache", "tomcat", "iis", "load balancer", "cdn", "vpc", "ec2", "s3", "lambda",

	// 嵌入式与电子
	"arduino", "raspberry pi", "iot", "esp32", "verilog", "vhdl", "proteus", "multisim", "keil", "blynk",
	"gsm", "mqtt", "bluetooth", "wifi", "zigbee", "lora", "rfid", "sensors", "actuators",

	// CAD 与机械
	"autocad", "solidworks", "catia", "ansys", "fusion 360", "creo", "hypermesh", "nx", "inventor",
	"simulink", "adams", "abaqus", "nastran", "cfd", "fea", "cam", "cnc",

	// 土木与建筑
	"revit", "staad pro", "etabs", "autocad civil", "arcgis", "qgis", "primavera", "sketchup", "v ray", "lumion",
	"civil 3d", "plaxis", "ms project", "tekla", "safe", "survey", "gps", "gis",

	// 财务与商业
	"tally", "sap", "quickbooks", "xero", "oracle financials", "zoho books", "excel macros", "vba",
	"financial modeling", "equity research", "npv", "irr", "ratio analysis", "stock market", "trading",

	// 医疗与生命科学
	"lims", "bioconductor", "labguru", "meditech", "epic", "cerner", "genbank", "biopython", "pubmed",
	"emr", "ehr", "microscopy", "cytoscape", "pcr", "elisa", "flow cytometry", "genomics",

	// 教育
	"moodle", "blackboard", "canvas", "turnitin", "mathtype", "latex", "ms teams", "zoom", "google classroom",
	"padlet", "kahoot", "nearpod", "slido", "edmodo", "mentimeter", "socrative", "peardeck",

	// 法律
	"lexisnexis", "manupatra", "case mine", "air", "scconline", "live law", "indiakanoon", "case tracking",
	"legal docs", "contract management", "compliance", "due diligence", "arbitration",

	// 市场与内容
	"mailchimp", "hootsuite", "buffer", "semrush", "ahrefs", "google ads", "facebook ads", "linkedin ads",
	"premiere pro", "after effects", "audacity", "obs", "notion", "trello", "asana",

	// 软技能与语言
	"leadership", "team management", "project management", "agile", "scrum", "kanban", "lean", "six sigma",
	"communication", "presentation", "negotiation", "problem solving", "critical thinking", "analytical skills",
	"english", "spanish", "french", "german", "chinese", "japanese", "hindi", "arabic",
}

// Keyword 预编译的关键词
type Keyword struct {
	Text    string
	pattern *regexp.Regexp
}

// MatchString 判断文本中是否以词边界方式出现该关键词（不区分大小写）
func (k Keyword) MatchString(s string) bool {
	return k.pattern.MatchString(s)
}

// Lexicon 抽取器共享的只读词表，进程启动时构建一次后注入各抽取器
type Lexicon struct {
	degrees []Keyword
	skills  []Keyword
}

// NewLexicon 用给定的学位与技能词表构造 Lexicon，重复项只保留首次出现
func NewLexicon(degrees, skills []string) *Lexicon {
	return &Lexicon{
		degrees: compileKeywords(degrees),
		skills:  compileKeywords(skills),
	}
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconOnce sync.Once
)

// DefaultLexicon 返回内置词表
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		defaultLexicon = NewLexicon(degreeKeywords, techKeywords)
	})
	return defaultLexicon
}

// Degrees 学位关键词（按优先级）
func (l *Lexicon) Degrees() []Keyword { return l.degrees }

// Skills 技能关键词
func (l *Lexicon) Skills() []Keyword { return l.skills }

// MatchDegree 返回行内第一个命中的学位关键词
func (l *Lexicon) MatchDegree(line string) (Keyword, bool) {
	for _, kw := range l.degrees {
		if kw.MatchString(line) {
			return kw, true
		}
	}
	return Keyword{}, false
}

// MatchSkills 返回文本中命中的技能关键词，按词表顺序
func (l *Lexicon) MatchSkills(text string) []Keyword {
	var found []Keyword
	for _, kw := range l.skills {
		if kw.MatchString(text) {
			found = append(found, kw)
		}
	}
	return found
}

func compileKeywords(words []string) []Keyword {
	seen := make(map[string]struct{}, len(words))
	out := make([]Keyword, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, Keyword{Text: w, pattern: keywordPattern(w)})
	}
	return out
}
