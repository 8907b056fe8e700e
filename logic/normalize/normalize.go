package normalize

import (
	"fmt"
	"strings"

	"legalsense/types"
)

// 把任一提取来源的原始结果归一到规范 Schema。
// 规则：单个字段/记录校验失败就丢弃或取默认值，绝不让整次分析失败。

// FromRaw 生成式回复 -> ParsedDocument
func FromRaw(raw *types.RawAnalysis, docID string, lang types.LanguageCode) types.ParsedDocument {
	doc := types.ParsedDocument{
		ID:       docID,
		Title:    strings.TrimSpace(raw.DocumentInfo.Title),
		Language: lang,
		Summary:  strings.TrimSpace(raw.Summary),
		Notes:    raw.DocumentInfo.Notes,
	}
	if doc.Title == "" {
		doc.Title = "Legal Document"
	}
	if doc.Summary == "" {
		doc.Summary = "Analysis completed"
	}

	for _, p := range raw.Parties {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		// 未知角色不报错，一律落到 Other
		doc.Parties = append(doc.Parties, types.Party{
			Name: name,
			Role: types.ParseRole(p.Role),
		})
	}

	doc.EffectiveDate = cleanDate(raw.Dates.EffectiveDate)
	doc.TerminationDate = cleanDate(raw.Dates.TerminationDate)
	doc.Obligations = append(doc.Obligations, raw.Obligations...)

	for _, c := range raw.Clauses {
		clause := types.Clause{
			Title:          strings.TrimSpace(c.Title),
			OriginalText:   c.OriginalText,
			SimplifiedText: c.SimplifiedText,
		}
		// category/risk_level 解析失败就保持未评分，不丢整条
		if cat, ok := types.ParseCategory(c.Category); ok {
			clause.Category = &cat
		}
		if lvl, ok := types.ParseRiskLevel(c.RiskLevel); ok {
			clause.RiskLevel = &lvl
		}
		doc.Clauses = append(doc.Clauses, clause)
	}

	SanitizeDocument(&doc)
	return doc
}

// SanitizeDocument 对两条提取路径统一执行不变量：
// 上限裁剪、clause_N 顺序重编号、original_text 截断、切片非 nil。
// 来源给的条款 id 一律不信任，直接覆盖
func SanitizeDocument(doc *types.ParsedDocument) {
	if len(doc.Parties) > types.MaxParties {
		doc.Parties = doc.Parties[:types.MaxParties]
	}
	if len(doc.Obligations) > types.MaxObligations {
		doc.Obligations = doc.Obligations[:types.MaxObligations]
	}
	if len(doc.Clauses) > types.MaxClauses {
		doc.Clauses = doc.Clauses[:types.MaxClauses]
	}
	for i := range doc.Clauses {
		doc.Clauses[i].ID = fmt.Sprintf("clause_%d", i+1)
		doc.Clauses[i].OriginalText = Truncate(doc.Clauses[i].OriginalText, types.MaxClauseTextLen)
		if strings.TrimSpace(doc.Clauses[i].Title) == "" {
			doc.Clauses[i].Title = fmt.Sprintf("Clause %d", i+1)
		}
	}
	// JSON 序列化时要输出 [] 而不是 null
	if doc.Parties == nil {
		doc.Parties = []types.Party{}
	}
	if doc.Obligations == nil {
		doc.Obligations = []string{}
	}
	if doc.Clauses == nil {
		doc.Clauses = []types.Clause{}
	}
}

// Truncate rune 安全截断，避免把多字节字符切半
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func cleanDate(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return nil
	}
	return &v
}
