package match

import (
	"errors"
	"testing"

	"tagmatch/internal/model"
)

type fakeTitles map[string]string

func (f fakeTitles) ReadTitle(path string) (string, error) {
	title, ok := f[path]
	if !ok {
		return "", errors.New("no title tag")
	}
	return title, nil
}

func newSet(shared bool, titles ...string) *model.RecordSet {
	set := model.NewRecordSet(shared)
	for _, title := range titles {
		set.Append(model.NewRecord(title))
	}
	return set
}

func wordOnlyOptions() Options {
	return Options{UseWordMatch: true}
}

func assertMatched(t *testing.T, matches map[string]*model.Record, file, title string) {
	t.Helper()
	rec := matches[file]
	if rec == nil {
		t.Fatalf("file %q not matched, want title %q", file, title)
	}
	if rec.Title != title {
		t.Errorf("file %q matched %q, want %q", file, rec.Title, title)
	}
	if rec.File != file {
		t.Errorf("record %q assigned to %q, want %q", title, rec.File, file)
	}
}

func TestApplySharedSetMatchesByPosition(t *testing.T) {
	set := newSet(true, "First", "Second")
	files := []string{"whatever.mp3", "unrelated.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "whatever.mp3", "First")
	assertMatched(t, matches, "unrelated.mp3", "Second")
}

func TestApplyTitleSubstringInFileName(t *testing.T) {
	set := newSet(false, "Intro", "Outro")
	files := []string{"03 intro.mp3", "04 outro.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "03 intro.mp3", "Intro")
	assertMatched(t, matches, "04 outro.mp3", "Outro")
}

func TestApplySettlesMultipleSubstringCandidates(t *testing.T) {
	// both titles are substrings of the first file name
	set := newSet(false, "Love", "Love Again")
	files := []string{"Love Again.mp3", "Love.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "Love Again.mp3", "Love Again")
	assertMatched(t, matches, "Love.mp3", "Love")
}

func TestApplyWordMatchStripsSharedPrefix(t *testing.T) {
	set := newSet(false, "Great Song", "Mellow Thing")
	files := []string{
		"Artist - Great Awesome Song.mp3",
		"Artist - Mellow Tune Thing.mp3",
	}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "Artist - Great Awesome Song.mp3", "Great Song")
	assertMatched(t, matches, "Artist - Mellow Tune Thing.mp3", "Mellow Thing")
}

func TestApplyDropsAllClaimantsOnConflict(t *testing.T) {
	set := newSet(false, "Great Song", "Something Else Entirely")
	// the first two files both score above the threshold against the same
	// record; neither may win
	files := []string{
		"Great Fine Song live.mp3",
		"Great Fine Song demo.mp3",
		"Unrelated Name.mp3",
	}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("conflicting claims must all be dropped, got %d matches", len(matches))
	}
	for _, rec := range set.Records {
		if rec.Assigned() {
			t.Errorf("record %q must stay unassigned, got file %q", rec.Title, rec.File)
		}
	}
}

func TestApplyWordThresholdIsStrict(t *testing.T) {
	// 3 of 3 query tokens match 3 of 7 title tokens: ratio is exactly 0.6,
	// which must not pass the strictly-greater threshold
	set := newSet(false, "a b c d e f g", "z1 z2")
	files := []string{"a b c.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("boundary score must be rejected, got %v", matches)
	}
}

func TestApplyExactTagMatch(t *testing.T) {
	set := newSet(false, "Weird Title", "Another One")
	files := []string{"x1.mp3", "x2.mp3"}
	titles := fakeTitles{
		"x1.mp3": "Weird Title",
		"x2.mp3": "Another One",
	}

	matches, err := NewEngine(titles, Options{UseTagMatch: true}).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "x1.mp3", "Weird Title")
	assertMatched(t, matches, "x2.mp3", "Another One")
}

func TestApplyExactTagMatchIsCaseSensitive(t *testing.T) {
	set := newSet(false, "weird title")
	files := []string{"x1.mp3"}
	titles := fakeTitles{"x1.mp3": "Weird Title"}

	matches, err := NewEngine(titles, Options{UseTagMatch: true}).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("differing case must not match exactly, got %v", matches)
	}
}

func TestApplyTagWordMatch(t *testing.T) {
	set := newSet(false, "Great Song", "Mellow Thing")
	files := []string{"x1.mp3", "x2.mp3"}
	titles := fakeTitles{
		"x1.mp3": "Great Song (feat. Other)",
		"x2.mp3": "Mellow Thing (remix)",
	}

	matches, err := NewEngine(titles, Options{UseTagMatch: true, UseWordMatch: true}).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "x1.mp3", "Great Song")
	assertMatched(t, matches, "x2.mp3", "Mellow Thing")
}

func TestApplyLastItemFallback(t *testing.T) {
	// scores 4/7 of the word threshold, below 0.6 but above the relaxed 0.4
	set := newSet(false, "Strange Song Here")
	files := []string{"Strange Song feat Somebody.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	assertMatched(t, matches, "Strange Song feat Somebody.mp3", "Strange Song Here")
}

func TestApplyLastItemStillValidates(t *testing.T) {
	set := newSet(false, "Completely Different")
	files := []string{"nothing alike.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("unrelated last item must stay unmatched, got %v", matches)
	}
}

func TestApplyAssignsEachRecordOnce(t *testing.T) {
	set := newSet(false, "Intro", "Outro")
	files := []string{"01 intro.mp3", "02 outro.mp3"}

	matches, err := NewEngine(nil, wordOnlyOptions()).Apply(files, set)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[*model.Record]string)
	for file, rec := range matches {
		if prev, dup := seen[rec]; dup {
			t.Fatalf("record %q matched both %q and %q", rec.Title, prev, file)
		}
		seen[rec] = file
	}
}
