package types

// --- API 请求/响应 ---

type AnalyzeRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	Language   string `json:"language"`
}

type QARequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	Question   string `json:"question" binding:"required"`
	Language   string `json:"language"`
}

type SuggestRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	Language   string `json:"language"`
}

type SearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

// SearchHit 关键词检索的单条结果（chunk 级命中聚合到文档）
type SearchHit struct {
	DocID    string  `json:"doc_id"`
	FileName string  `json:"file_name"`
	Title    string  `json:"title"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// --- 生成式模型的原始回复 Shape（弱类型，解析后立刻归一化） ---

type RawDocumentInfo struct {
	Title string   `json:"title"`
	Type  string   `json:"type"`
	Notes []string `json:"notes"`
}

type RawParty struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type RawDates struct {
	EffectiveDate   *string `json:"effective_date"`
	TerminationDate *string `json:"termination_date"`
}

type RawClause struct {
	Title          string `json:"title"`
	OriginalText   string `json:"original_text"`
	SimplifiedText string `json:"simplified_text"`
	Category       string `json:"category"`
	RiskLevel      string `json:"risk_level"`
}

// RawRiskAnalysis 分数用 *float64 接收：缺失的字段和显式 0 必须区分，
// 模型没给的分数要落基线而不是按 0 算（float64 也顺便容下 25.0 这种回复）
type RawRiskAnalysis struct {
	FinancialScore   *float64 `json:"financial_score"`
	LegalScore       *float64 `json:"legal_score"`
	ComplianceScore  *float64 `json:"compliance_score"`
	TerminationScore *float64 `json:"termination_score"`
	Recommendations  []string `json:"recommendations"`
}

// RawAnalysis 批量分析调用的固定回复结构
type RawAnalysis struct {
	DocumentInfo RawDocumentInfo `json:"document_info"`
	Parties      []RawParty      `json:"parties"`
	Dates        RawDates        `json:"dates"`
	Obligations  []string        `json:"obligations"`
	Clauses      []RawClause     `json:"clauses"`
	Summary      string          `json:"summary"`
	RiskAnalysis RawRiskAnalysis `json:"risk_analysis"`
}
