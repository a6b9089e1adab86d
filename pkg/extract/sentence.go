package extract

import (
	"strings"
	"unicode"
)

// common abbreviations that end with a period but do not end a sentence
var abbreviations = map[string]struct{}{
	"e.g": {}, "i.e": {}, "etc": {}, "cf": {}, "vs": {},
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "prof": {},
	"fig": {}, "al": {}, "no": {}, "vol": {},
}

// SplitSentences splits raw text into sentences on terminal punctuation.
// The split is a pure function of the input, so scanning the same text
// twice yields identical output.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := make([]string, 0)
	var sb strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		sb.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// consume runs of terminal punctuation as one boundary
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
			sb.WriteRune(runes[i])
		}

		if r == '.' && isAbbreviation(sb.String()) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if s := strings.TrimSpace(sb.String()); s != "" {
			sentences = append(sentences, s)
		}
		sb.Reset()
	}

	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func isAbbreviation(prefix string) bool {
	trimmed := strings.TrimRight(prefix, ".")
	idx := strings.LastIndexFunc(trimmed, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	})
	word := strings.ToLower(trimmed[idx+1:])
	_, ok := abbreviations[word]
	return ok
}

// Tokenize splits a sentence into lowercase word tokens, dropping
// punctuation.
func Tokenize(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}
