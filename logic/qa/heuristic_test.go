package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `This agreement is between ABC Company and John Doe.

Effective Date: January 1, 2024
Termination Date: December 31, 2024

Lessee shall pay $1,000 monthly rent. Lessor is responsible for repairs.
Either party may terminate this agreement with 30 days written notice.
`

func TestAnswerParties(t *testing.T) {
	answer := Answer("Who are the parties involved?", sampleDoc)
	require.NotEmpty(t, answer)
	assert.Contains(t, answer, "The parties involved are:")
	assert.Contains(t, answer, "ABC Company")
}

func TestAnswerPartiesNotFound(t *testing.T) {
	answer := Answer("Who are the parties?", "nothing useful here")
	assert.Equal(t, "Party information could not be clearly identified in the document.", answer)
}

func TestAnswerDates(t *testing.T) {
	answer := Answer("When does this take effect?", sampleDoc)
	assert.Contains(t, answer, "Effective date: January 1, 2024")
	assert.Contains(t, answer, "Termination date: December 31, 2024")
}

func TestAnswerObligations(t *testing.T) {
	answer := Answer("What obligations does each side have?", sampleDoc)
	assert.Contains(t, answer, "Key obligations include:")
	assert.Contains(t, answer, "shall pay")
}

func TestAnswerPayment(t *testing.T) {
	answer := Answer("What is the payment amount?", sampleDoc)
	assert.Contains(t, answer, "$1,000")
}

func TestAnswerTermination(t *testing.T) {
	answer := Answer("How can I cancel this contract?", sampleDoc)
	assert.Contains(t, answer, "Termination conditions:")
	assert.Contains(t, answer, "30 days")
}

// "who must pay" 同时命中参与方桶和义务桶，参与方优先
func TestAnswerBucketPriority(t *testing.T) {
	answer := Answer("who must pay the fee?", sampleDoc)
	assert.Contains(t, answer, "The parties involved are:")
}

func TestAnswerGeneric(t *testing.T) {
	answer := Answer("Tell me about repairs", sampleDoc)
	assert.Contains(t, answer, "Based on the document:")
	assert.Contains(t, answer, "repairs")
}

func TestAnswerGenericNotFound(t *testing.T) {
	answer := Answer("Something about quantum physics", sampleDoc)
	assert.Equal(t, "I couldn't find specific information related to your question in the document.", answer)
}

// 不管问题和文本长什么样，回答必须非空
func TestAnswerNeverEmpty(t *testing.T) {
	questions := []string{
		"", "?", "who", "when", "must", "payment", "cancel",
		"completely unrelated gibberish xyzzy",
	}
	for _, q := range questions {
		assert.NotEmpty(t, Answer(q, ""), "question %q", q)
		assert.NotEmpty(t, Answer(q, sampleDoc), "question %q", q)
	}
}
