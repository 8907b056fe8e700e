package service

import (
	"context"
	"log"

	"legalsense/logic/extract"
	"legalsense/logic/normalize"
	"legalsense/logic/risk"
	"legalsense/storage/postgres"
	"legalsense/types"
)

// AnalysisService 分析管线：生成式优先，失败降级本地提取。
// 这是整个系统最重要的失败隔离点——外部依赖挂了，
// 分析本身不允许挂
type AnalysisService struct {
	repo     *postgres.DocumentRepo
	analyzer *extract.Analyzer
}

// 构造函数：依赖注入
func NewAnalysisService(repo *postgres.DocumentRepo, analyzer *extract.Analyzer) *AnalysisService {
	return &AnalysisService{
		repo:     repo,
		analyzer: analyzer,
	}
}

// AnalyzeByID 从文档库取文本后分析。
// 唯一会返回 error 的情形是文档不存在（没东西可分析）
func (s *AnalysisService) AnalyzeByID(ctx context.Context, docID string, lang types.LanguageCode) (*types.AnalysisResult, error) {
	text, err := s.repo.GetText(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, docID, text, lang), nil
}

// Analyze 对给定文本做完整分析，永不返回 error。
// 提取源失败会降级；归一化里出现意外 panic 也兜住，
// 返回结构合法的降级结果而不是堆栈
func (s *AnalysisService) Analyze(ctx context.Context, docID, text string, lang types.LanguageCode) (result *types.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf(">>> [Analyze] 分析过程异常: %v", r)
			result = degradedResult(docID, lang)
		}
	}()

	if s.analyzer.Available() {
		raw, err := s.analyzer.BatchAnalyze(ctx, text)
		if err == nil {
			doc := normalize.FromRaw(raw, docID, lang)
			return &types.AnalysisResult{
				Doc:   doc,
				Risks: risk.FromScores(raw.RiskAnalysis),
			}
		}
		// 网络错误、超时、回复解析失败都走到这里，只试一次不重试
		log.Printf(">>> [Analyze] 生成式提取失败，降级本地提取: %v", err)
		return s.localAnalyze(docID, text, lang,
			"Generative extraction failed, analysis performed using local extraction fallback")
	}

	return s.localAnalyze(docID, text, lang,
		"Analysis performed using local models only")
}

// localAnalyze 本地兜底路径。本地条款没有 category/risk_level，
// 风险分数会全部落在基线上
func (s *AnalysisService) localAnalyze(docID, text string, lang types.LanguageCode, note string) *types.AnalysisResult {
	effective, termination := extract.ExtractDates(text)

	doc := types.ParsedDocument{
		ID:              docID,
		Title:           "Legal Document (Local Analysis)",
		Language:        lang,
		Parties:         extract.ExtractParties(text),
		EffectiveDate:   effective,
		TerminationDate: termination,
		Obligations:     extract.ExtractObligations(text),
		Clauses:         extract.ExtractClauses(text),
		Summary:         extract.Summarize(text),
		Notes:           []string{note},
	}
	normalize.SanitizeDocument(&doc)

	return &types.AnalysisResult{
		Doc:   doc,
		Risks: risk.FromClauses(doc.Clauses),
	}
}

// degradedResult 所有路径都失败时的最小合法结果。
// 形状完整、字段为空、note 说明原因
func degradedResult(docID string, lang types.LanguageCode) *types.AnalysisResult {
	doc := types.ParsedDocument{
		ID:       docID,
		Title:    "Legal Document",
		Language: lang,
		Summary:  "Document analysis failed. Please try again.",
		Notes:    []string{"An unexpected error occurred during analysis"},
	}
	normalize.SanitizeDocument(&doc)

	return &types.AnalysisResult{
		Doc:   doc,
		Risks: risk.FromClauses(nil),
	}
}
