package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"legalsense/types"
)

// 本地兜底提取器：纯正则/关键词，无任何网络依赖，结果完全确定。
// LLM 不可用或回复坏掉时整条分析链路落到这里。

// "X and Y" 成对出现的双方
var pairPattern = regexp.MustCompile(`(?i)between\s+([^,\n]+?)\s+and\s+([^,\n]+?)(?:[,.;]|$)`)

// "<Name> as the <Role>" 带角色标注的单方。
// 角色词大小写不敏感（capitalize 再归一），名字部分只认
// 首字母大写的词，防止把 "as the" 吞进名字里
var rolePattern = regexp.MustCompile(`([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*)\s*,?\s+(?i:as\s+)?(?i:the\s+)?((?i:Lessor|Lessee|Employer|Employee|Vendor|Customer))\b`)

// "Party A: xxx" 标签式
var partyAPattern = regexp.MustCompile(`(?i)(?:Party\s+A|First\s+Party)\s*[:=]\s*([^,\n]+)`)
var partyBPattern = regexp.MustCompile(`(?i)(?:Party\s+B|Second\s+Party)\s*[:=]\s*([^,\n]+)`)

// ExtractParties 提取参与方，按出现顺序去重，上限 MaxParties
func ExtractParties(text string) []types.Party {
	parties := make([]types.Party, 0, types.MaxParties)
	seen := make(map[string]bool)

	add := func(name string, role types.PartyRole) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := name + "|" + string(role)
		if seen[key] {
			return
		}
		seen[key] = true
		parties = append(parties, types.Party{Name: name, Role: role})
	}

	for _, m := range pairPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], types.RoleOther)
		add(m[2], types.RoleOther)
	}
	for _, m := range rolePattern.FindAllStringSubmatch(text, -1) {
		add(m[1], types.ParseRole(capitalize(m[2])))
	}
	for _, m := range partyAPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], types.RolePartyA)
	}
	for _, m := range partyBPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], types.RolePartyB)
	}

	if len(parties) > types.MaxParties {
		parties = parties[:types.MaxParties]
	}
	return parties
}

// 常见日期写法：1/1/2024、01-01-24、January 1, 2024、2024-01-01
const dateForms = `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}|\d{4}-\d{2}-\d{2})`

// 模式按固定顺序迭代，每个桶第一个命中的胜出
var effectivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)effective\s+date\s*[:\s]\s*` + dateForms),
	regexp.MustCompile(`(?i)commencement\s+date\s*[:\s]\s*` + dateForms),
	regexp.MustCompile(`(?i)start\s+date\s*[:\s]\s*` + dateForms),
}

var terminationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)termination\s+date\s*[:\s]\s*` + dateForms),
	regexp.MustCompile(`(?i)end\s+date\s*[:\s]\s*` + dateForms),
	regexp.MustCompile(`(?i)expiry\s+date\s*[:\s]\s*` + dateForms),
}

// ExtractDates 分桶提取生效日期和终止日期
func ExtractDates(text string) (effective, termination *string) {
	for _, p := range effectivePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			d := strings.TrimSpace(m[1])
			effective = &d
			break
		}
	}
	for _, p := range terminationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			d := strings.TrimSpace(m[1])
			termination = &d
			break
		}
	}
	return effective, termination
}

// ObligationKeywords 句子含任意一个关键词即视为义务条款
var ObligationKeywords = []string{
	"shall", "must", "will", "agree to", "responsible for", "obligated to",
	"required to", "duty to", "commitment to", "undertake to",
}

// ExtractObligations 按文档顺序返回义务句，上限 MaxObligations
func ExtractObligations(text string) []string {
	var obligations []string
	for _, sentence := range SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, kw := range ObligationKeywords {
			if strings.Contains(lower, kw) {
				obligations = append(obligations, sentence)
				break
			}
		}
		if len(obligations) >= types.MaxObligations {
			break
		}
	}
	return obligations
}

// 条款标题模式，顺序固定："1. Title:"、全大写 "TITLE:"、"Section N"、"Article N"
var clausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*\d+\.\s*([^:\n]+):`),
	regexp.MustCompile(`(?m)^([A-Z][A-Z\s]+[A-Z]):`),
	regexp.MustCompile(`(?m)Section\s+\d+\s*[:\s]\s*([^:\n]+)`),
	regexp.MustCompile(`(?m)Article\s+\d+\s*[:\s]\s*([^:\n]+)`),
}

// ExtractClauses 按标题切分条款。条款正文是当前标题到下一个
// 同模式标题之间的文本。本地无法做语义简化，simplified_text
// 用模板句占位；category/risk_level 保持未评分。
func ExtractClauses(text string) []types.Clause {
	var clauses []types.Clause
	for _, p := range clausePatterns {
		matches := p.FindAllStringSubmatchIndex(text, -1)
		for i, m := range matches {
			if len(clauses) >= types.MaxClauses {
				return clauses
			}
			title := strings.TrimSpace(text[m[2]:m[3]])
			bodyStart := m[1]
			bodyEnd := len(text)
			if i+1 < len(matches) {
				bodyEnd = matches[i+1][0]
			}
			body := strings.TrimSpace(text[bodyStart:bodyEnd])
			clauses = append(clauses, types.Clause{
				Title:          title,
				OriginalText:   body,
				SimplifiedText: fmt.Sprintf("Section about %s", strings.ToLower(title)),
			})
		}
	}
	return clauses
}

// Summarize 本地摘要：前 3 句原文拼接，不做任何生成
func Summarize(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return strings.Join(sentences, " ")
}

// capitalize 把匹配到的角色 token 归一成枚举写法（LESSOR -> Lessor）
func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// SplitSentences 轻量分句：句末标点后跟空白即断句。
// 够用就行，不追求 NLP 级别的精度
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(b.String()); s != "" {
					sentences = append(sentences, s)
				}
				b.Reset()
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
