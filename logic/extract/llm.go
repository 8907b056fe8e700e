package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"legalsense/types"
	"legalsense/vars"
)

// ErrModelUnavailable 没配置 LLM，调用方直接走本地路径
var ErrModelUnavailable = errors.New("chat model not configured")

// ErrMalformedReply 模型回复解析失败。这是一个确定性的降级信号：
// 上层捕获后必须切换本地提取，绝不向调用方抛出
var ErrMalformedReply = errors.New("malformed model reply")

// Analyzer 生成式提取适配器。整个系统里唯一允许非确定性失败的组件。
// chatModel 构造一次后只读共享，并发安全
type Analyzer struct {
	chatModel model.ToolCallingChatModel
}

func NewAnalyzer(chatModel model.ToolCallingChatModel) *Analyzer {
	return &Analyzer{chatModel: chatModel}
}

func (a *Analyzer) Available() bool {
	return a != nil && a.chatModel != nil
}

// BatchAnalyze 单次调用提取全部结构化信息。
// 文本只取前 MaxPromptChars（控制成本），回复必须是固定 shape 的 JSON
func (a *Analyzer) BatchAnalyze(ctx context.Context, text string) (*types.RawAnalysis, error) {
	if !a.Available() {
		return nil, ErrModelUnavailable
	}

	content := truncateRunes(text, vars.MaxPromptChars)
	prompt := strings.ReplaceAll(vars.BATCHANALYZE, "{{.Content}}", content)

	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr := jsonObjectWindow(stripFences(reply))

	var raw types.RawAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return &raw, nil
}

// AnswerQuestion 用同一个适配器回答单个问题，换一个 Prompt 模板
func (a *Analyzer) AnswerQuestion(ctx context.Context, question, content string) (string, error) {
	if !a.Available() {
		return "", ErrModelUnavailable
	}

	content = truncateRunes(content, vars.MaxPromptChars)
	prompt := strings.ReplaceAll(vars.QAPROMPT, "{{.Content}}", content)
	prompt = strings.ReplaceAll(prompt, "{{.Question}}", question)

	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(reply)
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrMalformedReply)
	}
	return answer, nil
}

// SuggestQuestions 生成最多 MaxSuggestions 个推荐问题
func (a *Analyzer) SuggestQuestions(ctx context.Context, content string) ([]string, error) {
	if !a.Available() {
		return nil, ErrModelUnavailable
	}

	content = truncateRunes(content, vars.MaxSuggestChars)
	prompt := strings.ReplaceAll(vars.SUGGEST, "{{.Content}}", content)

	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr := jsonArrayWindow(stripFences(reply))
	var questions []string
	if err := json.Unmarshal([]byte(jsonStr), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrMalformedReply)
	}
	if len(questions) > types.MaxSuggestions {
		questions = questions[:types.MaxSuggestions]
	}
	return questions, nil
}

// generate 单次调用，固定超时预算，不重试
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, vars.LLMTimeout)
	defer cancel()

	resp, err := a.chatModel.Generate(callCtx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// truncateRunes 按 rune 截断前缀，不能把多字节字符切半后
// 给模型送出非法 UTF-8
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stripFences 去掉模型包裹的 markdown 代码栅栏
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// jsonObjectWindow 截取首个 { 到末个 } 之间的内容，
// 模型偶尔会在 JSON 前后加说明文字
func jsonObjectWindow(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

func jsonArrayWindow(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}
