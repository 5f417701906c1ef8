// Package beautify normalizes the casing and spacing of metadata fields.
//
// String applies title-style capitalization to free-form text: every word is
// capitalized except configured stopwords, which stay lowercase unless they
// start the string or a sentence. Exception entries replace case-insensitive
// matches with their configured value, for names whose casing no rule can
// derive ("McCartney", "USA").
package beautify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"tagmatch/internal/textmatch"
)

var (
	wordPattern = regexp.MustCompile(`\w+`)

	// sentence punctuation after which a new sentence starts
	sentenceMarks = []string{".", "!", "?"}
)

// String beautifies a metadata field value:
//   - invalid whitespace replaced, redundant spaces collapsed
//   - every word capitalized, stopwords lowercased
//   - the first word of the string and of each sentence capitalized
//   - exceptions replaced literally by their configured value
func String(s string, stopwords textmatch.Stopwords, exceptions map[string]string) string {
	s = strings.Join(strings.Fields(s), " ")

	if stopwords != nil {
		s = wordPattern.ReplaceAllStringFunc(s, func(w string) string {
			if stopwords.Contains(w) {
				return strings.ToLower(w)
			}
			return capitalize(w)
		})
	}

	s = capitalizeFirstWord(s)
	for _, mark := range sentenceMarks {
		parts := strings.Split(s, mark)
		for i := 1; i < len(parts); i++ {
			parts[i] = capitalizeFirstWord(parts[i])
		}
		s = strings.Join(parts, mark)
	}

	for from, to := range exceptions {
		pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(from))
		s = pattern.ReplaceAllLiteralString(s, to)
	}
	return s
}

// capitalize uppercases the first letter and lowercases the rest.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	first, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
}

// capitalizeFirstWord capitalizes the first word of s, preserving any
// leading spaces.
func capitalizeFirstWord(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := strings.IndexByte(s[start:], ' ')
	if end < 0 {
		end = len(s)
	} else {
		end += start
	}
	return s[:start] + capitalize(s[start:end]) + s[end:]
}
