package ranking

// defaultDomainEntries 领域知识表：术语 -> 相关概念，顺序即扩展顺序
var defaultDomainEntries = []DomainEntry{
	// 编程与技术
	{Term: "python", Related: []string{"programming", "coding", "development", "scripting", "automation"}},
	{Term: "java", Related: []string{"programming", "object-oriented", "enterprise", "android"}},
	{Term: "javascript", Related: []string{"web development", "frontend", "react", "node.js", "typescript"}},
	{Term: "react", Related: []string{"frontend", "ui", "javascript", "component-based", "spa"}},
	{Term: "angular", Related: []string{"frontend", "typescript", "framework", "spa"}},
	{Term: "vue", Related: []string{"frontend", "javascript", "progressive", "framework"}},
	{Term: "node.js", Related: []string{"backend", "javascript", "server-side", "express"}},
	{Term: "express", Related: []string{"backend", "node.js", "api", "server"}},
	{Term: "django", Related: []string{"python", "backend", "web framework", "mvc"}},
	{Term: "flask", Related: []string{"python", "backend", "microframework", "api"}},
	{Term: "spring", Related: []string{"java", "backend", "enterprise", "framework"}},
	{Term: "sql", Related: []string{"database", "query", "relational", "mysql", "postgresql"}},
	{Term: "mongodb", Related: []string{"database", "nosql", "document", "json"}},
	{Term: "postgresql", Related: []string{"database", "sql", "relational", "enterprise"}},
	{Term: "mysql", Related: []string{"database", "sql", "relational", "open source"}},
	{Term: "redis", Related: []string{"database", "cache", "key-value", "in-memory"}},
	{Term: "docker", Related: []string{"containerization", "devops", "deployment", "kubernetes"}},
	{Term: "kubernetes", Related: []string{"containerization", "orchestration", "devops", "docker"}},
	{Term: "aws", Related: []string{"cloud", "amazon", "infrastructure", "devops"}},
	{Term: "azure", Related: []string{"cloud", "microsoft", "infrastructure", "devops"}},
	{Term: "gcp", Related: []string{"cloud", "google", "infrastructure", "devops"}},
	{Term: "git", Related: []string{"version control", "github", "gitlab", "collaboration"}},
	{Term: "github", Related: []string{"git", "version control", "collaboration", "open source"}},
	{Term: "jenkins", Related: []string{"ci/cd", "automation", "devops", "pipeline"}},
	{Term: "machine learning", Related: []string{"ai", "artificial intelligence", "ml", "data science"}},
	{Term: "ai", Related: []string{"artificial intelligence", "machine learning", "neural networks"}},
	{Term: "data science", Related: []string{"analytics", "statistics", "machine learning", "python"}},
	{Term: "analytics", Related: []string{"data analysis", "insights", "business intelligence", "reporting"}},
	{Term: "api", Related: []string{"rest", "graphql", "integration", "web services"}},
	{Term: "rest", Related: []string{"api", "http", "web services", "json"}},
	{Term: "graphql", Related: []string{"api", "query language", "schema", "flexible"}},
	{Term: "html", Related: []string{"web", "frontend", "markup", "css"}},
	{Term: "css", Related: []string{"styling", "frontend", "web", "design"}},
	{Term: "bootstrap", Related: []string{"css", "frontend", "responsive", "ui framework"}},
	{Term: "tailwind", Related: []string{"css", "utility-first", "frontend", "responsive"}},
	{Term: "typescript", Related: []string{"javascript", "typed", "frontend", "angular"}},
	{Term: "php", Related: []string{"backend", "web", "wordpress", "laravel"}},
	{Term: "c++", Related: []string{"programming", "system", "performance", "object-oriented"}},
	{Term: "c#", Related: []string{"programming", "microsoft", ".net", "object-oriented"}},
	{Term: "scala", Related: []string{"programming", "jvm", "functional", "spark"}},
	{Term: "go", Related: []string{"programming", "golang", "concurrent", "system"}},
	{Term: "rust", Related: []string{"programming", "system", "memory safety", "performance"}},
	{Term: "swift", Related: []string{"programming", "ios", "apple", "mobile"}},
	{Term: "kotlin", Related: []string{"programming", "android", "jvm", "modern"}},
	{Term: "android", Related: []string{"mobile", "kotlin", "java", "google"}},
	{Term: "ios", Related: []string{"mobile", "swift", "apple", "iphone"}},
	{Term: "flutter", Related: []string{"mobile", "cross-platform", "dart", "google"}},
	{Term: "tensorflow", Related: []string{"machine learning", "deep learning", "neural networks", "ai"}},
	{Term: "pytorch", Related: []string{"machine learning", "deep learning", "neural networks", "ai"}},
	{Term: "scikit-learn", Related: []string{"machine learning", "python", "sklearn", "ml"}},
	{Term: "pandas", Related: []string{"data analysis", "python", "dataframe", "manipulation"}},
	{Term: "numpy", Related: []string{"numerical computing", "python", "arrays", "mathematics"}},
	{Term: "matplotlib", Related: []string{"visualization", "plotting", "python", "charts"}},
	{Term: "selenium", Related: []string{"automation", "testing", "web scraping", "browser"}},
	{Term: "junit", Related: []string{"testing", "java", "unit tests", "tdd"}},
	{Term: "pytest", Related: []string{"testing", "python", "unit tests", "tdd"}},
	{Term: "maven", Related: []string{"build tool", "java", "dependency management", "gradle"}},
	{Term: "gradle", Related: []string{"build tool", "java", "dependency management", "maven"}},
	{Term: "npm", Related: []string{"package manager", "javascript", "node.js", "yarn"}},
	{Term: "yarn", Related: []string{"package manager", "javascript", "node.js", "npm"}},
	// 商业与管理
	{Term: "project management", Related: []string{"pmp", "agile", "scrum", "leadership", "planning"}},
	{Term: "agile", Related: []string{"scrum", "kanban", "iterative", "sprint", "project management"}},
	{Term: "scrum", Related: []string{"agile", "sprint", "product owner", "scrum master", "project management"}},
	{Term: "kanban", Related: []string{"agile", "visual", "workflow", "lean", "project management"}},
	{Term: "lean", Related: []string{"six sigma", "process improvement", "efficiency", "waste reduction"}},
	{Term: "six sigma", Related: []string{"quality management", "process improvement", "statistics", "lean"}},
	{Term: "business analysis", Related: []string{"requirements", "stakeholder", "process", "strategy"}},
	{Term: "strategy", Related: []string{"planning", "business", "competitive", "market analysis"}},
	{Term: "marketing", Related: []string{"digital marketing", "branding", "campaigns", "customer acquisition"}},
	{Term: "sales", Related: []string{"business development", "lead generation", "customer relationship", "revenue"}},
	{Term: "finance", Related: []string{"accounting", "budgeting", "financial analysis", "investment"}},
	{Term: "accounting", Related: []string{"finance", "bookkeeping", "audit", "tax", "financial reporting"}},
	{Term: "human resources", Related: []string{"hr", "recruitment", "employee relations", "talent management"}},
	{Term: "hr", Related: []string{"human resources", "recruitment", "employee relations", "talent management"}},
	{Term: "operations", Related: []string{"process management", "efficiency", "logistics", "supply chain"}},
	{Term: "supply chain", Related: []string{"logistics", "procurement", "inventory", "operations"}},
	{Term: "logistics", Related: []string{"supply chain", "transportation", "warehousing", "distribution"}},
	{Term: "customer service", Related: []string{"support", "client relations", "help desk", "customer experience"}},
	{Term: "business development", Related: []string{"sales", "partnerships", "market expansion", "growth"}},
	{Term: "product management", Related: []string{"product owner", "roadmap", "user experience", "strategy"}},
	// 医疗与健康
	{Term: "patient care", Related: []string{"healthcare", "medical", "nursing", "clinical", "treatment"}},
	{Term: "medical", Related: []string{"healthcare", "clinical", "patient care", "diagnosis", "treatment"}},
	{Term: "healthcare", Related: []string{"medical", "patient care", "clinical", "hospital", "pharmacy"}},
	{Term: "nursing", Related: []string{"patient care", "medical", "clinical", "healthcare", "registered nurse"}},
	{Term: "pharmacy", Related: []string{"medication", "prescription", "clinical", "healthcare", "drug"}},
	{Term: "clinical", Related: []string{"medical", "patient care", "healthcare", "diagnosis", "treatment"}},
	{Term: "diagnosis", Related: []string{"medical", "clinical", "assessment", "evaluation", "healthcare"}},
	{Term: "treatment", Related: []string{"medical", "clinical", "patient care", "therapy", "healthcare"}},
	{Term: "therapeutic", Related: []string{"medical", "treatment", "clinical", "therapy", "healthcare"}},
	{Term: "medical records", Related: []string{"epic", "ehr", "electronic health records", "healthcare", "clinical"}},
	{Term: "epic", Related: []string{"medical records", "ehr", "healthcare", "clinical", "electronic health records"}},
	// 教育与培训
	{Term: "teaching", Related: []string{"education", "instruction", "curriculum", "learning", "pedagogy"}},
	{Term: "curriculum", Related: []string{"education", "teaching", "instruction", "learning", "syllabus"}},
	{Term: "instruction", Related: []string{"teaching", "education", "learning", "pedagogy", "curriculum"}},
	{Term: "assessment", Related: []string{"evaluation", "testing", "education", "learning", "measurement"}},
	{Term: "learning", Related: []string{"education", "training", "instruction", "development", "knowledge"}},
	{Term: "training", Related: []string{"education", "learning", "workshop", "development", "instruction"}},
	{Term: "workshop", Related: []string{"training", "education", "learning", "seminar", "development"}},
	{Term: "seminar", Related: []string{"training", "education", "workshop", "learning", "presentation"}},
	{Term: "course development", Related: []string{"curriculum", "education", "instruction", "learning", "training"}},
	// 创意与设计
	{Term: "design", Related: []string{"graphic design", "ui/ux", "creative", "visual", "artistic"}},
	{Term: "graphic design", Related: []string{"design", "visual", "creative", "adobe", "illustration"}},
	{Term: "ui/ux", Related: []string{"user experience", "user interface", "design", "wireframing", "prototyping"}},
	{Term: "user experience", Related: []string{"ui/ux", "design", "usability", "user research", "wireframing"}},
	{Term: "creative", Related: []string{"design", "artistic", "visual", "graphic design", "innovation"}},
	{Term: "illustration", Related: []string{"graphic design", "visual", "creative", "artistic", "drawing"}},
	{Term: "photography", Related: []string{"visual", "creative", "camera", "image editing", "artistic"}},
	{Term: "video editing", Related: []string{"post-production", "creative", "visual", "adobe premiere", "final cut"}},
	{Term: "animation", Related: []string{"motion graphics", "creative", "visual", "3d", "maya"}},
	{Term: "branding", Related: []string{"marketing", "design", "identity", "logo", "visual"}},
	// 法律与合规
	{Term: "legal", Related: []string{"law", "compliance", "regulatory", "litigation", "contract"}},
	{Term: "compliance", Related: []string{"regulatory", "legal", "policy", "governance", "risk"}},
	{Term: "regulatory", Related: []string{"compliance", "legal", "policy", "government", "standards"}},
	{Term: "contract", Related: []string{"legal", "agreement", "negotiation", "terms", "compliance"}},
	{Term: "litigation", Related: []string{"legal", "court", "dispute", "law", "trial"}},
	{Term: "intellectual property", Related: []string{"patent", "trademark", "copyright", "legal", "ip"}},
	// 制造与工程
	{Term: "manufacturing", Related: []string{"production", "quality control", "industrial", "engineering", "operations"}},
	{Term: "quality control", Related: []string{"manufacturing", "qc", "inspection", "standards", "testing"}},
	{Term: "cad", Related: []string{"autocad", "design", "engineering", "drafting", "technical drawing"}},
	{Term: "autocad", Related: []string{"cad", "design", "engineering", "drafting", "technical drawing"}},
	{Term: "solidworks", Related: []string{"cad", "3d modeling", "engineering", "design", "mechanical"}},
	{Term: "mechanical engineering", Related: []string{"engineering", "mechanical", "design", "manufacturing", "cad"}},
	{Term: "electrical engineering", Related: []string{"engineering", "electrical", "electronics", "circuits", "power"}},
	{Term: "civil engineering", Related: []string{"engineering", "civil", "construction", "infrastructure", "structural"}},
	// 金融与银行
	{Term: "banking", Related: []string{"finance", "financial services", "investment", "lending", "credit"}},
	{Term: "investment", Related: []string{"finance", "banking", "trading", "portfolio", "wealth management"}},
	{Term: "trading", Related: []string{"investment", "finance", "markets", "securities", "trading desk"}},
	{Term: "risk management", Related: []string{"finance", "risk assessment", "compliance", "banking", "investment"}},
	{Term: "financial analysis", Related: []string{"finance", "accounting", "analysis", "modeling", "valuation"}},
	{Term: "audit", Related: []string{"accounting", "finance", "compliance", "review", "internal audit"}},
	{Term: "tax", Related: []string{"accounting", "finance", "compliance", "taxation", "irs"}},
	{Term: "insurance", Related: []string{"underwriting", "claims", "risk assessment", "finance", "actuarial"}},
	{Term: "underwriting", Related: []string{"insurance", "risk assessment", "finance", "lending", "credit"}},
	// 市场与传播
	{Term: "digital marketing", Related: []string{"online marketing", "social media", "seo", "sem", "content marketing"}},
	{Term: "social media", Related: []string{"digital marketing", "facebook", "instagram", "linkedin", "twitter"}},
	{Term: "content creation", Related: []string{"content marketing", "writing", "creative", "digital marketing", "seo"}},
	{Term: "seo", Related: []string{"search engine optimization", "digital marketing", "content", "google", "organic"}},
	{Term: "sem", Related: []string{"search engine marketing", "ppc", "google ads", "digital marketing", "paid"}},
	{Term: "public relations", Related: []string{"pr", "communications", "media relations", "branding", "marketing"}},
	{Term: "communications", Related: []string{"public relations", "marketing", "messaging", "branding", "pr"}},
	{Term: "brand management", Related: []string{"marketing", "branding", "identity", "positioning", "strategy"}},
	// 科研与学术
	{Term: "research", Related: []string{"analysis", "methodology", "investigation", "study", "academic"}},
	{Term: "analysis", Related: []string{"research", "data analysis", "statistics", "methodology", "investigation"}},
	{Term: "methodology", Related: []string{"research", "analysis", "study design", "statistics", "academic"}},
	{Term: "statistics", Related: []string{"analysis", "research", "data", "mathematics", "methodology"}},
	{Term: "publication", Related: []string{"research", "academic", "journal", "paper", "writing"}},
	{Term: "peer review", Related: []string{"academic", "research", "publication", "evaluation", "scholarly"}},
	{Term: "grant writing", Related: []string{"research", "academic", "funding", "proposal", "writing"}},
	{Term: "academic writing", Related: []string{"research", "publication", "scholarly", "writing", "academic"}},
}
