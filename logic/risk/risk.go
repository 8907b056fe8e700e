package risk

import (
	"fmt"
	"math"

	"legalsense/types"
)

// 风险聚合：把异构的条款级信号折算成每类 0..100 的有界分数。
// by_category 永远是固定顺序的 4 项，不管有没有证据。

// Categories 固定类别顺序，输出顺序以此为准
var Categories = []types.ClauseCategory{
	types.CategoryFinancial,
	types.CategoryLegal,
	types.CategoryCompliance,
	types.CategoryTermination,
}

// 没有任何已评分条款时的基线分。不给 0 是有意的：
// 证据缺失不等于"零风险"
var baselines = map[types.ClauseCategory]int{
	types.CategoryFinancial:   25,
	types.CategoryLegal:       30,
	types.CategoryCompliance:  20,
	types.CategoryTermination: 15,
}

// 风险等级 -> 累加权重
var levelWeights = map[types.RiskLevel]int{
	types.RiskHigh:   30,
	types.RiskMedium: 15,
	types.RiskLow:    5,
}

// FromScores 生成式路径：显式给出的分数逐个 clamp 到 [0,100]；
// 回复里缺失的分数不当 0 处理，落到对应类别的基线。
// 模型没给建议时按阈值本地推导
func FromScores(raw types.RawRiskAnalysis) types.RiskOverview {
	explicit := map[types.ClauseCategory]*float64{
		types.CategoryFinancial:   raw.FinancialScore,
		types.CategoryLegal:       raw.LegalScore,
		types.CategoryCompliance:  raw.ComplianceScore,
		types.CategoryTermination: raw.TerminationScore,
	}

	byCategory := make([]types.RiskCategory, 0, len(Categories))
	for _, cat := range Categories {
		score := baselines[cat]
		if v := explicit[cat]; v != nil {
			score = clamp(int(math.Round(*v)))
		}
		byCategory = append(byCategory, types.RiskCategory{Category: string(cat), Score: score})
	}

	recommendations := raw.Recommendations
	if len(recommendations) == 0 {
		recommendations = DeriveRecommendations(byCategory)
	}
	if len(recommendations) > types.MaxRecommendations {
		recommendations = recommendations[:types.MaxRecommendations]
	}

	return types.RiskOverview{ByCategory: byCategory, Recommendations: recommendations}
}

// FromClauses 兜底路径：从条款级 (category, risk_level) 推导。
// 只统计两个字段都有的条款——未评分条款对结果零贡献。
// 各类总权重除以四类中最大的已评分条款数，再按最大单条权重(30)
// 放大到 [0,100]。分母取跨类最大值是沿用原始实现的行为，
// 条款数不均时会稀释小类的分数，属于已知的刻意保留
func FromClauses(clauses []types.Clause) types.RiskOverview {
	sums := make(map[types.ClauseCategory]int)
	counts := make(map[types.ClauseCategory]int)

	for _, c := range clauses {
		if c.Category == nil || c.RiskLevel == nil {
			continue
		}
		w, ok := levelWeights[*c.RiskLevel]
		if !ok {
			continue
		}
		// General 类条款不落入四个风险类，跳过
		if _, scored := baselines[*c.Category]; !scored {
			continue
		}
		sums[*c.Category] += w
		counts[*c.Category]++
	}

	maxCount := 0
	for _, cat := range Categories {
		if counts[cat] > maxCount {
			maxCount = counts[cat]
		}
	}

	byCategory := make([]types.RiskCategory, 0, len(Categories))
	for _, cat := range Categories {
		score := baselines[cat]
		if counts[cat] > 0 && maxCount > 0 {
			avg := float64(sums[cat]) / float64(maxCount)
			score = clamp(int(math.Round(avg * 100.0 / float64(levelWeights[types.RiskHigh]))))
		}
		byCategory = append(byCategory, types.RiskCategory{Category: string(cat), Score: score})
	}

	return types.RiskOverview{
		ByCategory:      byCategory,
		Recommendations: DeriveRecommendations(byCategory),
	}
}

// DeriveRecommendations 按固定阈值每类最多一条建议，
// 全部低于阈值时给一条兜底信息，总量不超过 MaxRecommendations
func DeriveRecommendations(byCategory []types.RiskCategory) []string {
	var recommendations []string
	for _, rc := range byCategory {
		switch {
		case rc.Score > 70:
			recommendations = append(recommendations, fmt.Sprintf("%s: High risk detected, recommend legal review", rc.Category))
		case rc.Score > 40:
			recommendations = append(recommendations, fmt.Sprintf("%s: Moderate risk, review suggested", rc.Category))
		case rc.Score > 20:
			recommendations = append(recommendations, fmt.Sprintf("%s: Low risk, standard terms", rc.Category))
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Risk levels appear standard for this type of document")
	}
	if len(recommendations) > types.MaxRecommendations {
		recommendations = recommendations[:types.MaxRecommendations]
	}
	return recommendations
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
