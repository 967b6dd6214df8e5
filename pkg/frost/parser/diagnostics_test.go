package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/frost/pkg/frost/errors"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		input   string
		code    string
		message string
		line    int
		column  int
		offset  int
		length  int
	}{
		{"1 @ 2", "LEX-0001", "unrecognized character '@'", 1, 3, 2, 1},
		{"+1", "PARSE-0001", "expected expression, got '+'", 1, 1, 0, 1},
		{") 1", "PARSE-0001", "expected expression, got ')'", 1, 1, 0, 1},
		{"1 +", "PARSE-0002", "expected expression, got end of input", 1, 4, 3, 0},
		{"(1", "PARSE-0003", "expected ')'", 1, 3, 2, 0},
		{"()", "PARSE-0001", "expected expression, got ')'", 1, 2, 1, 1},
		{"(1 +)", "PARSE-0001", "expected expression, got ')'", 1, 5, 4, 1},
		{"((2 * ))", "PARSE-0001", "expected expression, got ')'", 1, 7, 6, 1},
		{"let x", "PARSE-0004", "'let' statements are not supported here", 1, 1, 0, 3},
		{"1 +\n  fn", "PARSE-0004", "'fn' statements are not supported here", 2, 3, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			errs := Parse(tt.input).Errors()
			require.Len(t, errs, 1)

			err := errs[0]
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.line, err.Line)
			assert.Equal(t, tt.column, err.Column)
			assert.Equal(t, tt.offset, err.Offset)
			assert.Equal(t, tt.length, err.Length)
			assert.True(t, err.IsSyntaxError())
		})
	}
}

func TestErrorsInSourceOrder(t *testing.T) {
	errs := Parse("(\n@").Errors()

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	// "(" then an ErrorNode wrapping "@" then the missing ")"
	assert.Equal(t, []string{"LEX-0001", "PARSE-0003"}, codes)
	assert.Equal(t, errors.ClassLex, errs[0].Class)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, []string{"close the parenthesis opened at column 1"}, errs[1].Hints)
}

func TestEmptyParenReportsBothGaps(t *testing.T) {
	errs := Parse("(").Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "PARSE-0002", errs[0].Code)
	assert.Equal(t, "PARSE-0003", errs[1].Code)
}

func TestValidInputHasNoErrors(t *testing.T) {
	res := Parse("  -(a + 2) * b # fine\n")
	assert.False(t, res.HasErrors())
	assert.Empty(t, res.Errors())
}
