package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(settings, DefaultSettings()) {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	settings := DefaultSettings()
	settings.WordMatchThreshold = 0.7
	settings.OutputFormat = "json"
	settings.UseTagMatch = false

	if err := settings.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, settings) {
		t.Errorf("loaded = %+v, want %+v", loaded, settings)
	}
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.cfg")
	content := "# common words\nThe\nfeat\n\nOF\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stopwords, err := LoadStopwords(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, word := range []string{"the", "FEAT", "of"} {
		if !stopwords.Contains(word) {
			t.Errorf("stopwords must contain %q", word)
		}
	}
	if stopwords.Contains("common") {
		t.Error("comment lines must be ignored")
	}
}

func TestLoadExceptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.cfg")
	content := "# special casing\nbbc: BBC\nMcCartney : McCartney\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	exceptions, err := LoadExceptions(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"bbc": "BBC", "mccartney": "McCartney"}
	if !reflect.DeepEqual(exceptions, want) {
		t.Errorf("exceptions = %v, want %v", exceptions, want)
	}
}

func TestLoadExceptionsRejectsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.cfg")
	if err := os.WriteFile(path, []byte("not a pair\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadExceptions(path); err == nil {
		t.Error("invalid line must error")
	}
}

func TestLoadEmptyPaths(t *testing.T) {
	if words, err := LoadStopwords(""); err != nil || words != nil {
		t.Errorf("LoadStopwords(\"\") = (%v, %v)", words, err)
	}
	if exceptions, err := LoadExceptions(""); err != nil || exceptions != nil {
		t.Errorf("LoadExceptions(\"\") = (%v, %v)", exceptions, err)
	}
}
