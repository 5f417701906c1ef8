package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagmatch/internal/config"
	"tagmatch/internal/model"
)

// minimal untagged MPEG payload; long enough that the tag backend parses it
// as a file without an ID3v2 header rather than a truncated one
var fakeMP3 = []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

const twoTrackListing = "- track: 1\n  title: First Song\n- track: 2\n  title: Second Song\n"

func makeAlbum(t *testing.T, extra map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"01 First Song.mp3", "02 Second Song.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), fakeMP3, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range extra {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newRunner(t *testing.T, settings *config.Settings) *Runner {
	t.Helper()
	if settings == nil {
		settings = config.DefaultSettings()
	}
	r, err := New(settings, nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestResolveDiscoversInfoListing(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)})

	res, err := newRunner(t, nil).Resolve(Options{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || len(res.Matches) != 2 {
		t.Fatalf("files = %d, matches = %d, want 2 and 2", len(res.Files), len(res.Matches))
	}
	rec := res.Matches[filepath.Join(dir, "01 First Song.mp3")]
	if rec == nil || rec.Title != "First Song" {
		t.Errorf("matched record = %+v, want First Song", rec)
	}
}

func TestResolveExplicitInfoPath(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"tracks.yaml": []byte(twoTrackListing)})

	res, err := newRunner(t, nil).Resolve(Options{
		Path:     dir,
		InfoPath: filepath.Join(dir, "tracks.yaml"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Set.Len() != 2 {
		t.Errorf("records = %d, want 2", res.Set.Len())
	}
}

func TestResolveOverridesApplyToEveryRecord(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)})

	overrides := &model.Record{Artist: "Some Artist", Album: "The Album"}
	res, err := newRunner(t, nil).Resolve(Options{Path: dir, Overrides: overrides})
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range res.Set.Records {
		if rec.Artist != "Some Artist" || rec.Album != "The Album" {
			t.Errorf("record %q = artist %q album %q", rec.Title, rec.Artist, rec.Album)
		}
		// match_artist fills the missing album artist
		if rec.AlbumArtist != "Some Artist" {
			t.Errorf("record %q album artist = %q", rec.Title, rec.AlbumArtist)
		}
	}
}

func TestResolveWithoutMetadataSources(t *testing.T) {
	dir := makeAlbum(t, nil)

	if _, err := newRunner(t, nil).Resolve(Options{Path: dir}); err == nil {
		t.Error("a directory without metadata sources must not resolve")
	}
}

func TestResolveDiscoversCoverFile(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{
		"info.yml":  []byte(twoTrackListing),
		"cover.jpg": {0xFF, 0xD8, 0xFF},
	})

	res, err := newRunner(t, nil).Resolve(Options{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(res.CoverSource) != "cover.jpg" {
		t.Errorf("cover source = %q, want discovered cover.jpg", res.CoverSource)
	}
}

func TestRunDryLeavesFilesUntouched(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)})
	settings := config.DefaultSettings()
	settings.PrefixTrack = true
	settings.SaveCoverInTags = false

	if err := newRunner(t, settings).Run(context.Background(), Options{Path: dir, Dry: true}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"01 First Song.mp3", "02 Second Song.mp3"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("original file missing after dry run: %v", err)
		}
		if len(data) != len(fakeMP3) {
			t.Errorf("%s modified during dry run", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "output.yml")); err == nil {
		t.Error("dry run must not write the output listing")
	}
}

func TestRunRenamesAndWritesListing(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)})
	settings := config.DefaultSettings()
	settings.PrefixTrack = true
	settings.SaveCoverInTags = false

	if err := newRunner(t, settings).Run(context.Background(), Options{Path: dir}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"1 First Song.mp3", "2 Second Song.mp3"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("renamed file %q missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "01 First Song.mp3")); err == nil {
		t.Error("old file name must be gone after rename")
	}
	data, err := os.ReadFile(filepath.Join(dir, "output.yml"))
	if err != nil {
		t.Fatalf("output listing missing: %v", err)
	}
	if !strings.Contains(string(data), "First Song") {
		t.Errorf("listing = %q", data)
	}
}

func TestRunBackupCopiesOriginals(t *testing.T) {
	dir := makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)})
	settings := config.DefaultSettings()
	settings.SaveCoverInTags = false

	opts := Options{Path: dir, Backup: true, NoRename: true, NoOutput: true}
	if err := newRunner(t, settings).Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	backup := filepath.Join(dir, "backup", "01 First Song.mp3")
	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("backup copy missing: %v", err)
	}
	if len(data) != len(fakeMP3) {
		t.Errorf("backup copy modified, %d bytes", len(data))
	}
}

func TestRunAllProcessesEveryAlbum(t *testing.T) {
	dirs := []string{
		makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)}),
		makeAlbum(t, map[string][]byte{"info.yml": []byte(twoTrackListing)}),
	}
	settings := config.DefaultSettings()
	settings.SaveCoverInTags = false
	settings.MaxConcurrentAlbums = 2

	runs := make([]Options, len(dirs))
	for i, dir := range dirs {
		runs[i] = Options{Path: dir, NoUpdate: true, NoRename: true}
	}
	if err := newRunner(t, settings).RunAll(context.Background(), runs); err != nil {
		t.Fatal(err)
	}
	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Join(dir, "output.yml")); err != nil {
			t.Errorf("listing missing for %s: %v", dir, err)
		}
	}
}
