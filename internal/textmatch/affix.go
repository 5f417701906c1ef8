package textmatch

// StripSharedAffix removes the longest prefix or suffix of tokens shared by
// every sequence. When many file names carry identical boilerplate (a
// repeated artist prefix, a common album suffix), that run adds no
// discriminating signal and can dominate the similarity score; stripping it
// sharpens subsequent fuzzy matching.
//
// Lengths are tried from min(len)-1 down to 1, prefix before suffix at each
// length; the first shared run found is stripped from every sequence.
// Fewer than two sequences, or no shared affix, returns the input unchanged.
func StripSharedAffix(sequences [][]string) [][]string {
	if len(sequences) < 2 {
		return sequences
	}
	shortest := len(sequences[0])
	for _, seq := range sequences[1:] {
		if len(seq) < shortest {
			shortest = len(seq)
		}
	}
	first := sequences[0]
	for length := shortest - 1; length >= 1; length-- {
		if sharedPrefix(sequences, first[:length]) {
			out := make([][]string, len(sequences))
			for i, seq := range sequences {
				out[i] = seq[length:]
			}
			return out
		}
		if sharedSuffix(sequences, first[len(first)-length:]) {
			out := make([][]string, len(sequences))
			for i, seq := range sequences {
				out[i] = seq[:len(seq)-length]
			}
			return out
		}
	}
	return sequences
}

func sharedPrefix(sequences [][]string, prefix []string) bool {
	for _, seq := range sequences[1:] {
		if !equalTokens(seq[:len(prefix)], prefix) {
			return false
		}
	}
	return true
}

func sharedSuffix(sequences [][]string, suffix []string) bool {
	for _, seq := range sequences[1:] {
		if !equalTokens(seq[len(seq)-len(suffix):], suffix) {
			return false
		}
	}
	return true
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
