package separator

import (
	"strings"
	"unicode"
)

// Token types written to the word_type column.
const (
	TypeRussian = "ru"
	TypeLatin   = "en"
	TypeNumber  = "number"
	TypePunct   = "punct"
	TypeUnknown = "unknown"
)

// Token is a single word or punctuation run with the whitespace after it.
type Token struct {
	Text string
	Type string
	Tail int
}

// Tokenize splits a paragraph into words and punctuation runs.
// Hyphens between letters stay inside the word ("кто-то", "GPT-4");
// consecutive punctuation such as "?!" or "..." forms one token.
func Tokenize(text string) []Token {
	var tokens []Token
	var current strings.Builder
	inWord := false
	runes := []rune(text)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		s := current.String()
		typ := TypePunct
		if inWord {
			typ = classify(s)
		}
		tokens = append(tokens, Token{Text: s, Type: typ})
		current.Reset()
	}

	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
			flush()
			if len(tokens) > 0 {
				tokens[len(tokens)-1].Tail++
			}
		case isWordRune(r) || (r == '-' && inWord && current.Len() > 0 && i+1 < len(runes) && isWordRune(runes[i+1])):
			if !inWord {
				flush()
				inWord = true
			}
			current.WriteRune(r)
		default:
			if inWord {
				flush()
				inWord = false
			}
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// classify decides the word_type of a word token.
func classify(word string) string {
	var cyr, lat, digit, other int
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyr++
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			lat++
		case unicode.IsDigit(r):
			digit++
		case r == '-':
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return TypeUnknown
	case cyr > 0 && lat == 0:
		return TypeRussian
	case lat > 0 && cyr == 0:
		return TypeLatin
	case digit > 0 && cyr == 0 && lat == 0:
		return TypeNumber
	}
	return TypeUnknown
}

// endsSentence reports whether a punctuation token closes a sentence.
func endsSentence(tok Token) bool {
	return tok.Type == TypePunct && strings.ContainsAny(tok.Text, ".!?…")
}
