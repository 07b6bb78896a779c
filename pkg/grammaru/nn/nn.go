// Package nn recognises the adjective and participle endings where Russian
// spelling chooses between "н" and "нн".
package nn

import (
	"regexp"
	"strings"
)

// Endings are the adjective/participle endings that follow the н or нн.
const Endings = `ыми|ее|их|ых|ая|ого|ей|ом|ему|ие|ые|ую|им|ем|ому|ой|ое|его|ый|ими|ым|ий`

var (
	SingleN = regexp.MustCompile(`[^н]н(?:` + Endings + `)$`)
	DoubleN = regexp.MustCompile(`нн(?:` + Endings + `)$`)
	ending  = regexp.MustCompile(`н+(?:` + Endings + `)$`)
)

// Kind says which spelling a word uses.
type Kind int

const (
	None Kind = iota
	Single
	Double
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "n"
	case Double:
		return "nn"
	}
	return ""
}

// Label is the training label of a kind: 0 for н, 1 for нн.
func (k Kind) Label() int {
	if k == Double {
		return 1
	}
	return 0
}

// Classify matches a word against the н and нн patterns, ignoring case.
func Classify(word string) Kind {
	w := strings.ToLower(word)
	switch {
	case DoubleN.MatchString(w):
		return Double
	case SingleN.MatchString(w):
		return Single
	}
	return None
}

// Counterpart returns the word with н and нн swapped before the ending,
// keeping the case of the original letters. ok is false when the word is
// not a candidate.
func Counterpart(word string) (string, bool) {
	kind := Classify(word)
	if kind == None {
		return "", false
	}
	runes := []rune(word)
	loc := ending.FindStringIndex(strings.ToLower(word))
	// ToLower maps rune to rune, so rune offsets agree with word.
	start := len([]rune(strings.ToLower(word)[:loc[0]]))

	var b strings.Builder
	b.WriteString(string(runes[:start]))
	n := runes[start]
	if kind == Single {
		b.WriteRune(n)
		b.WriteRune(n)
		b.WriteString(string(runes[start+1:]))
	} else {
		b.WriteRune(n)
		b.WriteString(string(runes[start+2:]))
	}
	return b.String(), true
}
