// Package textmatch provides the text-normalization and fuzzy-scoring
// primitives used by the matching pipeline.
//
// # Normalization
//
// CleanWords turns free-form titles and file names into comparable lowercase
// token sequences, dropping punctuation and configured stopwords:
//
//	words := textmatch.CleanWords("01. Some Title (feat. Other)", stopwords)
//	// ["01.", "some", "title", "feat.", "other"] minus stopwords
//
// # Scoring
//
// BestMatch and BestMatchStrings select the candidate most similar to a
// query using the Ratcliff-Obershelp ratio (matching blocks over total
// length). Ties break toward the earliest candidate, keeping runs
// deterministic.
//
// # Shared affixes
//
// StripSharedAffix removes boilerplate token runs shared by every sequence
// (a repeated "[Artist] - " prefix across all file names) before scoring.
package textmatch
