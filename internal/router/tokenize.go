package router

import (
	"errors"
	"strings"
	"unicode"
)

var ErrUnterminatedQuote = errors.New("router: unterminated quote")

// closingQuotes maps every opening quote character to its closing one. Curly
// quotes are what most phone keyboards insert.
var closingQuotes = map[rune]rune{
	'"': '"',
	'“': '”',
	'„': '“',
}

// Tokenize splits s at whitespace. Text wrapped in matching quotes belongs to
// a single token and the quotes are removed, so `"hello world" x` yields
// ["hello world", "x"]. A pair of quotes with nothing between them yields an
// empty token.
func Tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inToken bool
		closing rune
		quoted  bool
	)

	for _, r := range s {
		switch {
		case quoted:
			if r == closing {
				quoted = false
				continue
			}
			current.WriteRune(r)

		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}

		default:
			inToken = true
			if c, ok := closingQuotes[r]; ok {
				quoted, closing = true, c
				continue
			}
			current.WriteRune(r)
		}
	}

	if quoted {
		return nil, ErrUnterminatedQuote
	}
	if inToken {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}
