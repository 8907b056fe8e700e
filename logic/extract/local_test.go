package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalsense/types"
)

const sampleLease = `LEASE AGREEMENT

This lease agreement is between ABC Company and John Doe.
ABC Company as the Lessor and John Doe as the Lessee.

Effective Date: January 1, 2024
Termination Date: December 31, 2024

1. Payment Terms: Lessee shall pay $1,000 monthly rent by the 5th of each month.
2. Maintenance: Lessor is responsible for structural repairs.
3. Termination: Either party may terminate with 30 days written notice.
`

func TestExtractParties(t *testing.T) {
	parties := ExtractParties(sampleLease)
	require.NotEmpty(t, parties)
	assert.LessOrEqual(t, len(parties), types.MaxParties)

	names := make(map[string]types.PartyRole)
	for _, p := range parties {
		names[p.Name] = p.Role
	}
	assert.Contains(t, names, "ABC Company")
	assert.Contains(t, names, "John Doe")
}

func TestExtractPartiesRoles(t *testing.T) {
	text := "ABC Company as the Employer and John Doe as the Employee agree as follows."
	parties := ExtractParties(text)
	require.NotEmpty(t, parties)

	roles := make(map[string]types.PartyRole)
	for _, p := range parties {
		roles[p.Name] = p.Role
	}
	assert.Equal(t, types.RoleEmployer, roles["ABC Company"])
	assert.Equal(t, types.RoleEmployee, roles["John Doe"])
}

// 角色词小写照样识别，归一成枚举写法
func TestExtractPartiesLowercaseRole(t *testing.T) {
	text := "ABC Company as the employer and John Doe as the employee agree as follows."
	parties := ExtractParties(text)
	require.NotEmpty(t, parties)

	roles := make(map[string]types.PartyRole)
	for _, p := range parties {
		roles[p.Name] = p.Role
	}
	assert.Equal(t, types.RoleEmployer, roles["ABC Company"])
	assert.Equal(t, types.RoleEmployee, roles["John Doe"])
}

func TestExtractPartiesLabels(t *testing.T) {
	text := "Party A: Globex Corp\nParty B: Initech LLC\n"
	parties := ExtractParties(text)
	require.Len(t, parties, 2)
	assert.Equal(t, types.RolePartyA, parties[0].Role)
	assert.Equal(t, "Globex Corp", parties[0].Name)
	assert.Equal(t, types.RolePartyB, parties[1].Role)
	assert.Equal(t, "Initech LLC", parties[1].Name)
}

func TestExtractPartiesDedupAndCap(t *testing.T) {
	text := `This agreement is between Alpha Inc and Beta Inc.
This agreement is between Alpha Inc and Beta Inc.
Party A: Gamma LLC
Party B: Delta LLC
Party A: Epsilon Ltd
`
	parties := ExtractParties(text)
	assert.LessOrEqual(t, len(parties), types.MaxParties)

	seen := make(map[string]int)
	for _, p := range parties {
		seen[p.Name+"|"+string(p.Role)]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate party %s", key)
	}
}

func TestExtractPartiesEmpty(t *testing.T) {
	parties := ExtractParties("no structure here at all")
	assert.Empty(t, parties)
}

func TestExtractDates(t *testing.T) {
	effective, termination := ExtractDates(sampleLease)
	require.NotNil(t, effective)
	require.NotNil(t, termination)
	assert.Equal(t, "January 1, 2024", *effective)
	assert.Equal(t, "December 31, 2024", *termination)
}

func TestExtractDatesNumericForms(t *testing.T) {
	text := "Commencement Date: 01/15/2024 and the End Date: 2024-12-31."
	effective, termination := ExtractDates(text)
	require.NotNil(t, effective)
	require.NotNil(t, termination)
	assert.Equal(t, "01/15/2024", *effective)
	assert.Equal(t, "2024-12-31", *termination)
}

func TestExtractDatesMissing(t *testing.T) {
	effective, termination := ExtractDates("no dates mentioned anywhere")
	assert.Nil(t, effective)
	assert.Nil(t, termination)
}

func TestExtractObligations(t *testing.T) {
	obligations := ExtractObligations(sampleLease)
	require.NotEmpty(t, obligations)
	assert.LessOrEqual(t, len(obligations), types.MaxObligations)
	assert.Contains(t, obligations[0], "shall")
}

func TestExtractObligationsCap(t *testing.T) {
	text := ""
	for i := 0; i < 20; i++ {
		text += "The tenant shall pay rent on time. "
	}
	obligations := ExtractObligations(text)
	assert.Len(t, obligations, types.MaxObligations)
}

func TestExtractClausesNumbered(t *testing.T) {
	clauses := ExtractClauses(sampleLease)
	require.NotEmpty(t, clauses)
	assert.LessOrEqual(t, len(clauses), types.MaxClauses)

	assert.Equal(t, "Payment Terms", clauses[0].Title)
	assert.Contains(t, clauses[0].OriginalText, "$1,000")
	assert.Equal(t, "Section about payment terms", clauses[0].SimplifiedText)
	// 本地路径不评分
	assert.Nil(t, clauses[0].Category)
	assert.Nil(t, clauses[0].RiskLevel)
}

func TestExtractClausesAllCapsHeaders(t *testing.T) {
	text := "PAYMENT TERMS:\nRent is due monthly.\nTERMINATION CLAUSE:\nThirty days notice required.\n"
	clauses := ExtractClauses(text)
	require.Len(t, clauses, 2)
	assert.Equal(t, "PAYMENT TERMS", clauses[0].Title)
	assert.Contains(t, clauses[0].OriginalText, "Rent is due monthly")
}

func TestExtractClausesCap(t *testing.T) {
	text := ""
	for i := 1; i <= 15; i++ {
		text += "1. Clause Title: some body text here.\n"
	}
	clauses := ExtractClauses(text)
	assert.Len(t, clauses, types.MaxClauses)
}

func TestSummarize(t *testing.T) {
	text := "First sentence. Second sentence. Third sentence. Fourth sentence."
	summary := Summarize(text)
	assert.Equal(t, "First sentence. Second sentence. Third sentence.", summary)
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("Rent is $1,000 per month. Payment is due on the 5th! Is that clear?")
	require.Len(t, sentences, 3)
	assert.Equal(t, "Rent is $1,000 per month.", sentences[0])
	assert.Equal(t, "Is that clear?", sentences[2])
}

func TestSplitSentencesNoTrailingPunct(t *testing.T) {
	sentences := SplitSentences("One complete sentence. And a trailing fragment")
	require.Len(t, sentences, 2)
	assert.Equal(t, "And a trailing fragment", sentences[1])
}
