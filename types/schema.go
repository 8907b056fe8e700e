package types

// --- 常量定义 ---

// 各字段的硬上限，任何提取来源都不允许超过
const (
	MaxParties         = 4
	MaxObligations     = 10
	MaxClauses         = 10
	MaxClauseTextLen   = 500
	MaxRecommendations = 5
	MaxSuggestions     = 5
)

type LanguageCode string

const (
	LangEN LanguageCode = "en"
	LangHI LanguageCode = "hi"
	LangMR LanguageCode = "mr"
)

// ParseLanguage 非法语言码一律回退到英文
func ParseLanguage(s string) LanguageCode {
	switch LanguageCode(s) {
	case LangEN, LangHI, LangMR:
		return LanguageCode(s)
	default:
		return LangEN
	}
}

type PartyRole string

const (
	RoleLessor   PartyRole = "Lessor"
	RoleLessee   PartyRole = "Lessee"
	RoleEmployer PartyRole = "Employer"
	RoleEmployee PartyRole = "Employee"
	RolePartyA   PartyRole = "PartyA"
	RolePartyB   PartyRole = "PartyB"
	RoleVendor   PartyRole = "Vendor"
	RoleCustomer PartyRole = "Customer"
	RoleOther    PartyRole = "Other"
)

// ParseRole 从自由文本映射到角色枚举。
// 全函数：识别不了就返回 Other，永远不报错
func ParseRole(s string) PartyRole {
	switch PartyRole(s) {
	case RoleLessor, RoleLessee, RoleEmployer, RoleEmployee,
		RolePartyA, RolePartyB, RoleVendor, RoleCustomer, RoleOther:
		return PartyRole(s)
	default:
		return RoleOther
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParseRiskLevel 识别不了返回 false，调用方直接丢弃该字段（不是整条记录）
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	}
	return "", false
}

type ClauseCategory string

const (
	CategoryFinancial   ClauseCategory = "Financial"
	CategoryLegal       ClauseCategory = "Legal"
	CategoryCompliance  ClauseCategory = "Compliance"
	CategoryTermination ClauseCategory = "Termination"
	CategoryGeneral     ClauseCategory = "General"
)

func ParseCategory(s string) (ClauseCategory, bool) {
	switch ClauseCategory(s) {
	case CategoryFinancial, CategoryLegal, CategoryCompliance,
		CategoryTermination, CategoryGeneral:
		return ClauseCategory(s), true
	}
	return "", false
}

// --- 规范化 Schema（前端兼容面，字段名不能动） ---

type Party struct {
	Name string    `json:"name"`
	Role PartyRole `json:"role"`
}

// Clause Category/RiskLevel 为 nil 表示"未评分"，风险聚合时必须跳过，不能按 0 处理
type Clause struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	OriginalText   string          `json:"original_text"`
	SimplifiedText string          `json:"simplified_text"`
	Category       *ClauseCategory `json:"category,omitempty"`
	RiskLevel      *RiskLevel      `json:"risk_level,omitempty"`
}

type RiskCategory struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// RiskOverview ByCategory 固定 4 项，顺序 Financial/Legal/Compliance/Termination
type RiskOverview struct {
	ByCategory      []RiskCategory `json:"by_category"`
	Recommendations []string       `json:"recommendations"`
}

type ParsedDocument struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Language        LanguageCode `json:"language"`
	Parties         []Party      `json:"parties"`
	EffectiveDate   *string      `json:"effective_date"`
	TerminationDate *string      `json:"termination_date"`
	Obligations     []string     `json:"obligations"`
	Clauses         []Clause     `json:"clauses"`
	Summary         string       `json:"summary"`
	Notes           []string     `json:"notes,omitempty"`
}

// AnalysisResult 分析的唯一输出类型，每次请求重建，调用方独占
type AnalysisResult struct {
	Doc   ParsedDocument `json:"doc"`
	Risks RiskOverview   `json:"risks"`
}
