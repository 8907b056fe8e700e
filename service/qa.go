package service

import (
	"context"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"legalsense/logic/extract"
	"legalsense/logic/qa"
	"legalsense/storage/milvus"
	"legalsense/storage/postgres"
	"legalsense/types"
	"legalsense/vars"
)

// QAService 问答路由：适配器可用走生成式，否则走关键词级联。
// 状态每次调用现场判定，不缓存
type QAService struct {
	repo         *postgres.DocumentRepo
	analyzer     *extract.Analyzer
	milvusClient client.Client       // 可选，长文档的上下文检索
	embedder     embedding.Embedder  // 可选，同上
}

func NewQAService(repo *postgres.DocumentRepo, analyzer *extract.Analyzer, milvusClient client.Client, embedder embedding.Embedder) *QAService {
	return &QAService{
		repo:         repo,
		analyzer:     analyzer,
		milvusClient: milvusClient,
		embedder:     embedder,
	}
}

// AnswerByID 只有文档不存在才返回 error
func (s *QAService) AnswerByID(ctx context.Context, docID, question string, lang types.LanguageCode) (string, error) {
	text, err := s.repo.GetText(ctx, docID)
	if err != nil {
		return "", err
	}
	return s.Answer(ctx, docID, question, text), nil
}

// Answer 永远返回非空字符串，绝不抛错。
// 生成式调用失败立即落到启发式级联
func (s *QAService) Answer(ctx context.Context, docID, question, text string) string {
	if s.analyzer.Available() {
		content := s.qaContext(ctx, docID, question, text)
		answer, err := s.analyzer.AnswerQuestion(ctx, question, content)
		if err == nil {
			return answer
		}
		log.Printf(">>> [QA] 生成式回答失败，降级启发式: %v", err)
	}
	return qa.Answer(question, text)
}

// qaContext 长文档先在本文档范围内做语义检索，
// 拼接命中切片作为上下文；检索不可用就退回截断全文
func (s *QAService) qaContext(ctx context.Context, docID, question, text string) string {
	if len(text) <= vars.QAContextChars || s.milvusClient == nil || s.embedder == nil || docID == "" {
		return text
	}

	docs, err := milvus.Retriever(ctx, s.milvusClient, question, docID, 5, s.embedder)
	if err != nil || len(docs) == 0 {
		log.Printf(">>> [QA] 上下文检索失败，退回全文截断: %v", err)
		return text
	}

	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// SuggestedByID 只有文档不存在才返回 error
func (s *QAService) SuggestedByID(ctx context.Context, docID string) ([]string, error) {
	text, err := s.repo.GetText(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.SuggestedQuestions(ctx, text), nil
}

// SuggestedQuestions 返回非空且不超过 MaxSuggestions 的列表
func (s *QAService) SuggestedQuestions(ctx context.Context, text string) []string {
	if s.analyzer.Available() {
		questions, err := s.analyzer.SuggestQuestions(ctx, text)
		if err == nil {
			return questions
		}
		log.Printf(">>> [QA] 生成推荐问题失败，使用本地推荐: %v", err)
	}
	return localSuggestions(text)
}

// localSuggestions 按文档内容定制推荐问题，兜底用固定列表
func localSuggestions(text string) []string {
	suggestions := []string{
		"Who are the parties involved in this agreement?",
		"What are the main obligations of each party?",
		"What are the payment terms and amounts?",
		"How can this agreement be terminated?",
		"What happens in case of breach or default?",
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "lease", "rental", "property"):
		suggestions = append(suggestions,
			"What is the rental amount and payment schedule?",
			"What are the maintenance responsibilities?")
	case containsAny(lower, "employment", "employee", "employer"):
		suggestions = append(suggestions,
			"What are the employment terms and conditions?",
			"What are the termination procedures?")
	case containsAny(lower, "service", "vendor", "consulting"):
		suggestions = append(suggestions,
			"What services are being provided?",
			"What are the service level requirements?")
	}

	if len(suggestions) > types.MaxSuggestions {
		suggestions = suggestions[:types.MaxSuggestions]
	}
	return suggestions
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
