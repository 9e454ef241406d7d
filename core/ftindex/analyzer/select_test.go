package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTerms(t *testing.T, text string, opts FieldOptions) []string {
	t.Helper()
	a, err := Select(opts)
	require.NoError(t, err)

	tokens := a.Analyze([]byte(text))
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = string(tok.Term)
	}
	return terms
}

func TestSelectStemmedLowercasesAndStems(t *testing.T) {
	terms := tokenTerms(t, "Running Shoes", FieldOptions{})
	assert.Equal(t, []string{"run", "shoe"}, terms)
}

func TestSelectExactPreservesWordForm(t *testing.T) {
	terms := tokenTerms(t, "Running Shoes", FieldOptions{NoStem: true})
	assert.Equal(t, []string{"running", "shoes"}, terms)
}

func TestSelectIgnoresPhoneticsOption(t *testing.T) {
	withPhonetics := tokenTerms(t, "Widget", FieldOptions{Phonetics: true})
	withoutPhonetics := tokenTerms(t, "Widget", FieldOptions{})
	assert.Equal(t, withoutPhonetics, withPhonetics)
}

func TestSelectSplitsOnWhitespaceAndPunctuation(t *testing.T) {
	terms := tokenTerms(t, "red, blue and green!", FieldOptions{NoStem: true})
	assert.Equal(t, []string{"red", "blue", "and", "green"}, terms)
}
