package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "a b  c", want: []string{"a", "b", "c"}},
		{in: "\ta\nb\r\n", want: []string{"a", "b"}},
		{in: `"hello world" x`, want: []string{"hello world", "x"}},
		{in: `x "a  b"`, want: []string{"x", "a  b"}},
		{in: `"" x`, want: []string{"", "x"}},
		{in: `pre"fix suf"fix`, want: []string{"prefix suffix"}},
		{in: `“curly quotes” work`, want: []string{"curly quotes", "work"}},
		{in: `don't stop`, want: []string{"don't", "stop"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Tokenize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	for _, in := range []string{`"open`, `a "b c`, `“curly`, `"mismatched”`} {
		_, err := Tokenize(in)
		assert.ErrorIs(t, err, ErrUnterminatedQuote, in)
	}
}
