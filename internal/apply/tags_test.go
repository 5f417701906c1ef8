package apply

import (
	"os"
	"testing"

	"tagmatch/internal/model"
)

func TestTagsDryDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	rec := assignedRecord(t, dir, "song.mp3", "Some Title", 1)
	before, err := os.ReadFile(rec.File)
	if err != nil {
		t.Fatal(err)
	}

	if err := Tags(setOf(rec), true); err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(rec.File)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("dry run must not modify the file")
	}
}

func TestTagsSkipsUnassigned(t *testing.T) {
	set := setOf(&model.Record{Title: "Unmatched"})
	if err := Tags(set, false); err != nil {
		t.Fatal(err)
	}
}
