package qa

import (
	"fmt"
	"regexp"
	"strings"

	"legalsense/logic/extract"
)

// 无 LLM 时的问答兜底：问题按关键词桶分发到对应的确定性提取器。
// 显式的 (关键词, handler) 有序表，第一个命中的桶胜出。
// 每个 handler 必须返回非空的可读句子，哪怕是"没找到"。

type route struct {
	keywords []string
	handler  func(text string) string
}

// 桶的优先级固定：参与方 → 日期 → 义务 → 金额 → 终止
var routes = []route{
	{[]string{"party", "parties", "who"}, partyAnswer},
	{[]string{"date", "when", "effective", "termination"}, dateAnswer},
	{[]string{"obligation", "responsibility", "duty", "must", "shall"}, obligationAnswer},
	{[]string{"payment", "money", "cost", "fee", "price"}, paymentAnswer},
	{[]string{"terminate", "end", "cancel", "breach"}, terminationAnswer},
}

// Answer 大小写不敏感匹配关键词桶；都不命中走通用提取器
func Answer(question, text string) string {
	q := strings.ToLower(question)
	for _, r := range routes {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.handler(text)
			}
		}
	}
	return genericAnswer(question, text)
}

func partyAnswer(text string) string {
	parties := extract.ExtractParties(text)
	if len(parties) == 0 {
		return "Party information could not be clearly identified in the document."
	}
	// 按 "name (role)" 渲染去重，保持出现顺序
	seen := make(map[string]bool)
	var rendered []string
	for _, p := range parties {
		s := fmt.Sprintf("%s (%s)", p.Name, p.Role)
		if seen[s] {
			continue
		}
		seen[s] = true
		rendered = append(rendered, s)
	}
	return fmt.Sprintf("The parties involved are: %s", strings.Join(rendered, ", "))
}

func dateAnswer(text string) string {
	effective, termination := extract.ExtractDates(text)
	var parts []string
	if effective != nil {
		parts = append(parts, fmt.Sprintf("Effective date: %s", *effective))
	}
	if termination != nil {
		parts = append(parts, fmt.Sprintf("Termination date: %s", *termination))
	}
	if len(parts) == 0 {
		return "Date information could not be clearly identified in the document."
	}
	return strings.Join(parts, " ")
}

func obligationAnswer(text string) string {
	obligations := extract.ExtractObligations(text)
	if len(obligations) == 0 {
		return "Specific obligations could not be clearly identified in the document."
	}
	if len(obligations) > 3 {
		obligations = obligations[:3]
	}
	return fmt.Sprintf("Key obligations include: %s", strings.Join(obligations, " "))
}

var paymentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)[\d,]+(?:\.\d{2})?\s*(?:dollars?|USD)`),
	regexp.MustCompile(`(?i)payment\s+of\s+[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)fee\s+of\s+[\d,]+(?:\.\d{2})?`),
}

func paymentAnswer(text string) string {
	var payments []string
	for _, p := range paymentPatterns {
		payments = append(payments, p.FindAllString(text, -1)...)
	}
	if len(payments) == 0 {
		return "Payment information could not be clearly identified in the document."
	}
	if len(payments) > 3 {
		payments = payments[:3]
	}
	return fmt.Sprintf("Payment information found: %s", strings.Join(payments, "; "))
}

var terminationKeywords = []string{
	"terminate", "termination", "end", "cancel", "breach", "default",
	"violation", "failure to", "non-compliance",
}

func terminationAnswer(text string) string {
	var found []string
	for _, sentence := range extract.SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, kw := range terminationKeywords {
			if strings.Contains(lower, kw) {
				found = append(found, sentence)
				break
			}
		}
		if len(found) >= 2 {
			break
		}
	}
	if len(found) == 0 {
		return "Termination information could not be clearly identified in the document."
	}
	return fmt.Sprintf("Termination conditions: %s", strings.Join(found, " "))
}

// genericAnswer 兜底的兜底：取问题里长于 3 个字符的词，
// 返回最多 2 个包含任意此类词的句子
func genericAnswer(question, text string) string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, "?.,!")
		if len(w) > 3 {
			words = append(words, w)
		}
	}

	var relevant []string
	for _, sentence := range extract.SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, w := range words {
			if strings.Contains(lower, w) {
				relevant = append(relevant, sentence)
				break
			}
		}
		if len(relevant) >= 2 {
			break
		}
	}

	if len(relevant) == 0 {
		return "I couldn't find specific information related to your question in the document."
	}
	return fmt.Sprintf("Based on the document: %s", strings.Join(relevant, " "))
}
