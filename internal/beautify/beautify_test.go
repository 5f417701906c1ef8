package beautify

import (
	"testing"

	"tagmatch/internal/textmatch"
)

func TestString(t *testing.T) {
	stopwords := textmatch.NewStopwords([]string{"a", "the", "of"})

	tests := []struct {
		name       string
		input      string
		stopwords  textmatch.Stopwords
		exceptions map[string]string
		want       string
	}{
		{
			name:      "capitalizes words and lowers stopwords",
			input:     "This IS A TEsT",
			stopwords: textmatch.NewStopwords([]string{"a"}),
			want:      "This Is a Test",
		},
		{
			name:      "first word capitalized even when stopword",
			input:     "the best of times",
			stopwords: stopwords,
			want:      "The Best of Times",
		},
		{
			name:      "sentence starts capitalized after punctuation",
			input:     "first part. the second",
			stopwords: stopwords,
			want:      "First Part. The Second",
		},
		{
			name:      "whitespace collapsed",
			input:     "too\tmany   spaces\n",
			stopwords: stopwords,
			want:      "Too Many Spaces",
		},
		{
			name:       "exception replaces literal match",
			input:      "live at the bbc",
			stopwords:  stopwords,
			exceptions: map[string]string{"bbc": "BBC"},
			want:       "Live At the BBC",
		},
		{
			name:  "nil stopwords keeps original casing of words",
			input: "MixedCase words",
			want:  "Mixedcase words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(tt.input, tt.stopwords, tt.exceptions)
			if got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
