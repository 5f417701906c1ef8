package match

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSized(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0}, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFilterDuplicatesCollapsesNearIdenticalPair(t *testing.T) {
	dir := t.TempDir()
	// same title up to one styling character, nearly the same size:
	// tag edits shift a file's byte count slightly, the audio data does not
	a := writeSized(t, dir, "Some Very Long Title!.mp3", 10000)
	b := writeSized(t, dir, "Some Very Long Title_.mp3", 10004)
	c := writeSized(t, dir, "A Completely Different Track.mp3", 9990)

	got := FilterDuplicates([]string{a, b, c}, DefaultNameThreshold, DefaultSizeThreshold)
	want := []string{a, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterDuplicates = %v, want %v", got, want)
	}
}

func TestFilterDuplicatesKeepsDistinctTitles(t *testing.T) {
	dir := t.TempDir()
	// partially similar names are different songs, not duplicates
	a := writeSized(t, dir, "This Song!.mp3", 10000)
	b := writeSized(t, dir, "This Song (Extended).mp3", 10002)

	got := FilterDuplicates([]string{a, b}, DefaultNameThreshold, DefaultSizeThreshold)
	if len(got) != 2 {
		t.Errorf("distinct titles must both be retained, got %v", got)
	}
}

func TestFilterDuplicatesRequiresMatchingSizes(t *testing.T) {
	dir := t.TempDir()
	a := writeSized(t, dir, "Some Very Long Title!.mp3", 10000)
	b := writeSized(t, dir, "Some Very Long Title_.mp3", 4000)

	got := FilterDuplicates([]string{a, b}, DefaultNameThreshold, DefaultSizeThreshold)
	if len(got) != 2 {
		t.Errorf("similar names with diverging sizes must both be retained, got %v", got)
	}
}

func TestFilterDuplicatesFewerThanTwoFiles(t *testing.T) {
	got := FilterDuplicates([]string{"only.mp3"}, DefaultNameThreshold, DefaultSizeThreshold)
	if !reflect.DeepEqual(got, []string{"only.mp3"}) {
		t.Errorf("FilterDuplicates = %v", got)
	}
}

func TestMergeResolvesDuplicateFilesDry(t *testing.T) {
	dir := t.TempDir()
	a := writeSized(t, dir, "Some Very Long Title!.mp3", 10000)
	b := writeSized(t, dir, "Some Very Long Title_.mp3", 10004)
	c := writeSized(t, dir, "A Completely Different Track.mp3", 9990)
	files := []string{a, b, c}

	sources := []Source{{Set: recordsWithTitles("One", "Two")}}
	merged, retained, err := Merge(sources, files, MergeOptions{
		DeleteDuplicates: true,
		DryRun:           true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if merged.Len() != 2 {
		t.Errorf("merged size = %d, want 2", merged.Len())
	}
	if !reflect.DeepEqual(retained, []string{a, c}) {
		t.Errorf("retained = %v, want [%s %s]", retained, a, c)
	}
	if _, err := os.Stat(b); err != nil {
		t.Error("dry run must not delete anything")
	}
}

func TestMergeResolvesDuplicateFilesRemoves(t *testing.T) {
	dir := t.TempDir()
	a := writeSized(t, dir, "Some Very Long Title!.mp3", 10000)
	b := writeSized(t, dir, "Some Very Long Title_.mp3", 10004)
	c := writeSized(t, dir, "A Completely Different Track.mp3", 9990)
	files := []string{a, b, c}

	sources := []Source{{Set: recordsWithTitles("One", "Two")}}
	_, retained, err := Merge(sources, files, MergeOptions{DeleteDuplicates: true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(retained, []string{a, c}) {
		t.Errorf("retained = %v", retained)
	}
	if _, err := os.Stat(b); !os.IsNotExist(err) {
		t.Error("duplicate file must be removed")
	}
}

func TestMergeDuplicatesStillMismatched(t *testing.T) {
	dir := t.TempDir()
	a := writeSized(t, dir, "First Track Name.mp3", 10000)
	b := writeSized(t, dir, "Second Track Name Here.mp3", 12000)
	c := writeSized(t, dir, "Third Completely Other.mp3", 14000)
	files := []string{a, b, c}

	sources := []Source{{Set: recordsWithTitles("One", "Two")}}
	_, _, err := Merge(sources, files, MergeOptions{DeleteDuplicates: true})
	var shape *ShapeMismatchError
	if !errors.As(err, &shape) {
		t.Fatalf("err = %v, want *ShapeMismatchError", err)
	}
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("no file may be removed on mismatch: %s", path)
		}
	}
}
