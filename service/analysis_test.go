package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalsense/logic/extract"
	"legalsense/types"
)

type stubChatModel struct {
	reply string
	err   error
}

func (s *stubChatModel) Generate(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, msgs []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in stub")
}

func (s *stubChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return s, nil
}

const contractText = `This agreement is between ABC Company and John Doe.
Effective Date: January 1, 2024

1. Payment Terms: Lessee shall pay $1,000 monthly.
2. Termination: Either party may terminate with 30 days notice.
`

const goodReply = `{
  "document_info": {"title": "Service Agreement", "type": "Contract", "notes": []},
  "parties": [{"name": "ABC Company", "role": "Vendor"}],
  "dates": {"effective_date": "January 1, 2024", "termination_date": null},
  "obligations": ["Vendor shall deliver monthly reports"],
  "clauses": [
    {"title": "Fees", "original_text": "Fee is $5,000", "simplified_text": "Pay the fee", "category": "Financial", "risk_level": "High"}
  ],
  "summary": "A service agreement.",
  "risk_analysis": {
    "financial_score": 60,
    "legal_score": 30,
    "compliance_score": 20,
    "termination_score": 15,
    "recommendations": ["Negotiate the fee schedule"]
  }
}`

func assertValidResult(t *testing.T, result *types.AnalysisResult) {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Risks.ByCategory, 4)
	for _, rc := range result.Risks.ByCategory {
		assert.GreaterOrEqual(t, rc.Score, 0)
		assert.LessOrEqual(t, rc.Score, 100)
	}
	assert.NotEmpty(t, result.Risks.Recommendations)
	assert.NotNil(t, result.Doc.Parties)
	assert.NotNil(t, result.Doc.Obligations)
	assert.NotNil(t, result.Doc.Clauses)
	for i, c := range result.Doc.Clauses {
		assert.Equal(t, fmt.Sprintf("clause_%d", i+1), c.ID)
	}
}

func TestAnalyzeGenerative(t *testing.T) {
	svc := NewAnalysisService(nil, extract.NewAnalyzer(&stubChatModel{reply: goodReply}))
	result := svc.Analyze(context.Background(), "doc-1", contractText, types.LangEN)

	require.NotNil(t, result)
	assert.Equal(t, "Service Agreement", result.Doc.Title)
	require.Len(t, result.Doc.Parties, 1)
	assert.Equal(t, types.RoleVendor, result.Doc.Parties[0].Role)
	require.Len(t, result.Doc.Clauses, 1)
	assert.Equal(t, "clause_1", result.Doc.Clauses[0].ID)

	scores := make(map[string]int)
	for _, rc := range result.Risks.ByCategory {
		scores[rc.Category] = rc.Score
	}
	assert.Equal(t, 60, scores["Financial"])
	assert.Equal(t, []string{"Negotiate the fee schedule"}, result.Risks.Recommendations)
	assert.Empty(t, result.Doc.Notes)
}

// 合法 JSON 但没有 risk_analysis：分数落基线，不是全 0
func TestAnalyzeGenerativeMissingRiskScores(t *testing.T) {
	reply := `{
  "document_info": {"title": "Lease Agreement", "type": "Contract", "notes": []},
  "parties": [{"name": "ABC Company", "role": "Lessor"}],
  "dates": {"effective_date": null, "termination_date": null},
  "obligations": [],
  "clauses": [],
  "summary": "A lease."
}`
	svc := NewAnalysisService(nil, extract.NewAnalyzer(&stubChatModel{reply: reply}))
	result := svc.Analyze(context.Background(), "doc-1", contractText, types.LangEN)
	assertValidResult(t, result)

	scores := make(map[string]int)
	for _, rc := range result.Risks.ByCategory {
		scores[rc.Category] = rc.Score
	}
	assert.Equal(t, 25, scores["Financial"])
	assert.Equal(t, 30, scores["Legal"])
	assert.Equal(t, 20, scores["Compliance"])
	assert.Equal(t, 15, scores["Termination"])
}

func TestAnalyzeFallbackOnMalformedReply(t *testing.T) {
	svc := NewAnalysisService(nil, extract.NewAnalyzer(&stubChatModel{reply: "not json at all"}))
	result := svc.Analyze(context.Background(), "doc-1", contractText, types.LangEN)

	assertValidResult(t, result)
	require.NotEmpty(t, result.Doc.Notes)
	assert.Contains(t, result.Doc.Notes[0], "local extraction fallback")
	// 本地提取照样出结构化结果
	assert.NotEmpty(t, result.Doc.Parties)
	assert.NotEmpty(t, result.Doc.Clauses)
}

func TestAnalyzeFallbackOnModelError(t *testing.T) {
	svc := NewAnalysisService(nil, extract.NewAnalyzer(&stubChatModel{err: errors.New("connection refused")}))
	result := svc.Analyze(context.Background(), "doc-1", contractText, types.LangEN)

	require.NotNil(t, result)
	require.NotEmpty(t, result.Doc.Notes)
	assert.Contains(t, result.Doc.Notes[0], "local extraction fallback")
}

func TestAnalyzeLocalOnly(t *testing.T) {
	svc := NewAnalysisService(nil, extract.NewAnalyzer(nil))
	result := svc.Analyze(context.Background(), "doc-1", contractText, types.LangEN)

	require.NotNil(t, result)
	require.NotEmpty(t, result.Doc.Notes)
	assert.Equal(t, "Analysis performed using local models only", result.Doc.Notes[0])
	assert.Equal(t, "Legal Document (Local Analysis)", result.Doc.Title)
	require.Len(t, result.Risks.ByCategory, 4)

	// 本地条款未评分，风险全部落基线
	scores := make(map[string]int)
	for _, rc := range result.Risks.ByCategory {
		scores[rc.Category] = rc.Score
	}
	assert.Equal(t, 25, scores["Financial"])
	assert.Equal(t, 30, scores["Legal"])
}

func TestAnalyzeEmptyText(t *testing.T) {
	svc := NewAnalysisService(nil, extract.NewAnalyzer(nil))
	result := svc.Analyze(context.Background(), "doc-1", "", types.LangEN)
	assertValidResult(t, result)
}
