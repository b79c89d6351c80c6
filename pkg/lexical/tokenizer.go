package lexical

import (
	"strings"
	"unicode"
)

// Tokenize splits text into scoring terms. Latin-script words and digit
// runs become lowercased word tokens; CJK codepoints become one token
// each, since word boundaries are not marked in those scripts. Mixed
// Latin/CJK text tokenizes without special handling because the two
// paths never overlap.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, strings.ToLower(word.String()))
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// TermFrequency counts term occurrences in a token list
func TermFrequency(tokens []string) map[string]int {
	if len(tokens) == 0 {
		return nil
	}
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// isCJK reports whether r belongs to a script without marked word
// boundaries (Han, Hiragana, Katakana, Hangul).
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
