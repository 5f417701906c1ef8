package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestDownloadBytesCachesPerURL(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("cover bytes"))
	}))
	defer server.Close()

	client, err := NewClient(ProxyConfig{Type: ProxyNone})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		data, err := client.DownloadBytes(context.Background(), server.URL)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "cover bytes" {
			t.Fatalf("data = %q", data)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestGetRejectsNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := NewClient(ProxyConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Error("404 response must error")
	}
}

func TestFetchCoverDetectsMIME(t *testing.T) {
	// minimal PNG header is enough for content sniffing
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	}))
	defer server.Close()

	client, err := NewClient(ProxyConfig{Type: ProxyNone})
	if err != nil {
		t.Fatal(err)
	}
	cover, err := client.FetchCover(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if cover.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", cover.MIME)
	}
	if len(cover.Data) != len(png) {
		t.Errorf("data length = %d, want %d", len(cover.Data), len(png))
	}
}

func TestNewClientValidatesProxy(t *testing.T) {
	if _, err := NewClient(ProxyConfig{Type: ProxyManual}); err == nil {
		t.Error("manual proxy without address must error")
	}
	if _, err := NewClient(ProxyConfig{Type: "socks9"}); err == nil {
		t.Error("unknown proxy type must error")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/cover.jpg") {
		t.Error("https URL must be detected")
	}
	if IsURL("/home/user/cover.jpg") {
		t.Error("local path must not be detected as URL")
	}
}
