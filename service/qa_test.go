package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalsense/logic/extract"
	"legalsense/types"
)

func TestQAAnswerGenerative(t *testing.T) {
	analyzer := extract.NewAnalyzer(&stubChatModel{reply: "The rent is $1,000 per month."})
	svc := NewQAService(nil, analyzer, nil, nil)

	answer := svc.Answer(context.Background(), "doc-1", "What is the rent?", contractText)
	assert.Equal(t, "The rent is $1,000 per month.", answer)
}

func TestQAAnswerFallsBackOnModelError(t *testing.T) {
	analyzer := extract.NewAnalyzer(&stubChatModel{err: errors.New("connection refused")})
	svc := NewQAService(nil, analyzer, nil, nil)

	answer := svc.Answer(context.Background(), "doc-1", "Who are the parties?", contractText)
	require.NotEmpty(t, answer)
	assert.Contains(t, answer, "The parties involved are:")
}

func TestQAAnswerLocalOnly(t *testing.T) {
	svc := NewQAService(nil, extract.NewAnalyzer(nil), nil, nil)

	answer := svc.Answer(context.Background(), "doc-1", "When does it take effect?", contractText)
	assert.Contains(t, answer, "Effective date: January 1, 2024")
}

func TestQAAnswerNeverEmpty(t *testing.T) {
	svc := NewQAService(nil, extract.NewAnalyzer(nil), nil, nil)
	for _, q := range []string{"", "?", "random gibberish"} {
		assert.NotEmpty(t, svc.Answer(context.Background(), "doc-1", q, contractText))
	}
}

func TestSuggestedQuestionsGenerative(t *testing.T) {
	analyzer := extract.NewAnalyzer(&stubChatModel{reply: `["Q1", "Q2", "Q3"]`})
	svc := NewQAService(nil, analyzer, nil, nil)

	questions := svc.SuggestedQuestions(context.Background(), contractText)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, questions)
}

func TestSuggestedQuestionsLocal(t *testing.T) {
	svc := NewQAService(nil, extract.NewAnalyzer(nil), nil, nil)

	questions := svc.SuggestedQuestions(context.Background(), contractText)
	require.NotEmpty(t, questions)
	assert.LessOrEqual(t, len(questions), types.MaxSuggestions)
	for _, q := range questions {
		assert.NotEmpty(t, q)
	}
}

func TestSuggestedQuestionsLocalOnMalformedReply(t *testing.T) {
	analyzer := extract.NewAnalyzer(&stubChatModel{reply: "not a json array"})
	svc := NewQAService(nil, analyzer, nil, nil)

	questions := svc.SuggestedQuestions(context.Background(), contractText)
	require.NotEmpty(t, questions)
	assert.LessOrEqual(t, len(questions), types.MaxSuggestions)
}

func TestLocalSuggestionsContentAware(t *testing.T) {
	leaseDoc := "This lease covers the rental of the property at 1 Main St."
	questions := localSuggestions(leaseDoc)
	assert.LessOrEqual(t, len(questions), types.MaxSuggestions)
	require.NotEmpty(t, questions)
}
