package alert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseSubject(t *testing.T) {
	got := ResponseSubject("Active", "123 Main St")

	assert.Equal(t, "Active\n - \n123 Main St\n - \nDid we get a response ?  ", got)
}

func TestContractEndingSubject(t *testing.T) {
	got := ContractEndingSubject("Active", "123 Main St")

	assert.Equal(t, "Active\n - \n123 Main St\n - \nCONTRACT ENDING ", got)
}

func TestSubjectByKind(t *testing.T) {
	assert.True(t, strings.HasSuffix(Subject(KindResponseCheck, "s", "a"), "Did we get a response ?  "))
	assert.True(t, strings.HasSuffix(Subject(KindContractEnding, "s", "a"), "CONTRACT ENDING "))
}

func TestSubjectWithEmptyFields(t *testing.T) {
	assert.Equal(t, "\n - \n\n - \nCONTRACT ENDING ", ContractEndingSubject("", ""))
}

func TestDispatchError(t *testing.T) {
	err := &DispatchError{
		Alert: Alert{Kind: KindContractEnding, To: "ops@example.com", Subject: "subj", RowNumber: 4},
		Err:   assert.AnError,
	}

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "ops@example.com")
	assert.Contains(t, err.Error(), "row 4")
	assert.Contains(t, err.Error(), `"subj"`)
}
