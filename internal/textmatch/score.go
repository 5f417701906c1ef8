package textmatch

import "strings"

// Ratio computes the Ratcliff-Obershelp similarity of two token sequences:
// twice the total length of all matching blocks over the combined length,
// in [0, 1]. Symmetric, and block-based rather than edit-distance-based, so
// extra descriptive words lower the score gradually instead of dominating it.
func Ratio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := matchingTokens(a, b)
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// matchingTokens sums the sizes of all matching blocks: the longest common
// contiguous block, then recursively the blocks on each side of it.
func matchingTokens(a, b []string) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTokens(a[:ai], b[:bi]) +
		matchingTokens(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest contiguous run of equal tokens,
// preferring the earliest occurrence on ties.
func longestCommonBlock(a, b []string) (ai, bi, size int) {
	// row[j] = length of the common run ending at a[i-1], b[j-1]
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiag := 0
		for j := 1; j <= len(b); j++ {
			tmp := row[j]
			if a[i-1] == b[j-1] {
				run := prevDiag + 1
				row[j] = run
				if run > size {
					size = run
					ai = i - run
					bi = j - run
				}
			} else {
				row[j] = 0
			}
			prevDiag = tmp
		}
	}
	return ai, bi, size
}

// BestMatch returns the index, tokens, and similarity ratio of the candidate
// sequence most similar to the query. Ties are broken by the earliest index.
// An empty candidate list is a programming error and panics.
func BestMatch(query []string, candidates [][]string) (int, []string, float64) {
	if len(candidates) == 0 {
		panic("textmatch: BestMatch called with no candidates")
	}
	bestIdx := 0
	bestRatio := -1.0
	for i, candidate := range candidates {
		ratio := Ratio(query, candidate)
		if ratio > bestRatio {
			bestIdx = i
			bestRatio = ratio
		}
	}
	return bestIdx, candidates[bestIdx], bestRatio
}

// BestMatchStrings is BestMatch over raw strings, scored character-wise with
// the same Ratcliff-Obershelp ratio. Used where the full text matters (file
// names against titles, duplicate file names).
func BestMatchStrings(query string, candidates []string) (int, string, float64) {
	if len(candidates) == 0 {
		panic("textmatch: BestMatchStrings called with no candidates")
	}
	queryChars := splitChars(query)
	bestIdx := 0
	bestRatio := -1.0
	for i, candidate := range candidates {
		ratio := Ratio(queryChars, splitChars(candidate))
		if ratio > bestRatio {
			bestIdx = i
			bestRatio = ratio
		}
	}
	return bestIdx, candidates[bestIdx], bestRatio
}

// splitChars breaks a string into single-character tokens so the sequence
// ratio can score raw text.
func splitChars(s string) []string {
	return strings.Split(s, "")
}
