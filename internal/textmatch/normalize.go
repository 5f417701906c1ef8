package textmatch

import "strings"

// wordReplaceChars unifies typographic punctuation variants to their ASCII
// equivalents before any splitting happens, so curly quotes or long dashes
// never produce distinct tokens.
var wordReplaceChars = map[string]string{
	"’": "'",  // right single quote
	"‘": "'",  // left single quote
	"“": "\"", // left double quote
	"”": "\"", // right double quote
	"–": "-",  // en dash
	"—": "-",  // em dash
}

// wordSplitChars are replaced by spaces: bracket variants, characters that
// are illegal in file names, and the plus sign. They carry no word content.
var wordSplitChars = []string{
	"(", ")", "[", "]", "{", "}", "<", ">",
	"+", "|", "/", "\\", ":", "*", "?", "\"",
}

// wordIgnoreTokens are dropped when they survive splitting as standalone
// tokens (a lone dash or ampersand between title parts).
var wordIgnoreTokens = map[string]struct{}{
	"-":  {},
	"&":  {},
	"'":  {},
	"\"": {},
	",":  {},
	".":  {},
	"!":  {},
	";":  {},
	"~":  {},
}

// Stopwords is a case-insensitive set of words excluded from matching.
type Stopwords map[string]struct{}

// NewStopwords builds a stopword set from a word list.
func NewStopwords(words []string) Stopwords {
	set := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set holds the word (case-insensitive).
func (s Stopwords) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s[strings.ToLower(word)]
	return ok
}

// CleanWords normalizes text into lowercase word tokens for matching:
// punctuation variants are unified, word-splitting characters become spaces,
// and empty tokens, stopwords, and leftover punctuation tokens are dropped.
// Deterministic, no side effects.
func CleanWords(text string, stopwords Stopwords) []string {
	for from, to := range wordReplaceChars {
		text = strings.ReplaceAll(text, from, to)
	}
	for _, c := range wordSplitChars {
		text = strings.ReplaceAll(text, c, " ")
	}
	var words []string
	for _, word := range strings.Split(strings.ToLower(text), " ") {
		if word == "" {
			continue
		}
		if _, ignored := wordIgnoreTokens[word]; ignored {
			continue
		}
		if stopwords.Contains(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}
