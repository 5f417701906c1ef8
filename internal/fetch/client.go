package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tagmatch/internal/model"
)

// Proxy types accepted by ProxyConfig.Type.
const (
	ProxyNone   = "none"
	ProxySystem = "system"
	ProxyManual = "manual"
)

// ProxyConfig selects how outbound requests reach the network.
type ProxyConfig struct {
	// Type is one of "none", "system", or "manual". Empty means "system".
	Type string

	// Address and Port are used when Type is "manual".
	Address string
	Port    int
}

// Client wraps HTTP operations for fetching remote cover art.
//
// Responses are cached per client instance, so a run that applies the same
// cover URL to many albums fetches it once.
//
// Example usage:
//
//	client, err := fetch.NewClient(fetch.ProxyConfig{Type: fetch.ProxySystem})
//	cover, err := client.FetchCover(ctx, "https://example.com/front.jpg")
type Client struct {
	httpClient *http.Client
	userAgent  string

	mu    sync.Mutex
	cache map[string][]byte
}

// NewClient creates an HTTP client with a 60 second timeout and the given
// proxy configuration.
func NewClient(proxy ProxyConfig) (*Client, error) {
	transport, err := proxyTransport(proxy)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		userAgent: "tagmatch",
		cache:     make(map[string][]byte),
	}, nil
}

func proxyTransport(proxy ProxyConfig) (*http.Transport, error) {
	switch proxy.Type {
	case ProxyNone:
		return &http.Transport{Proxy: nil}, nil
	case ProxySystem, "":
		return &http.Transport{Proxy: http.ProxyFromEnvironment}, nil
	case ProxyManual:
		if proxy.Address == "" || proxy.Port == 0 {
			return nil, fmt.Errorf("manual proxy requires an address and port")
		}
		address := proxy.Address
		if !strings.Contains(address, "://") {
			address = "http://" + address
		}
		proxyURL, err := url.Parse(fmt.Sprintf("%s:%d", address, proxy.Port))
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address: %w", err)
		}
		return &http.Transport{Proxy: http.ProxyURL(proxyURL)}, nil
	default:
		return nil, fmt.Errorf("unknown proxy type %q", proxy.Type)
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header. Returns an error
// if the request fails or the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DownloadBytes fetches a URL, serving repeated requests for the same URL
// from the in-memory cache.
func (c *Client) DownloadBytes(ctx context.Context, rawURL string) ([]byte, error) {
	c.mu.Lock()
	data, ok := c.cache[rawURL]
	c.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[rawURL] = data
	c.mu.Unlock()
	return data, nil
}

// FetchCover downloads a cover image and returns it with its detected MIME
// type.
//
// Example:
//
//	cover, err := client.FetchCover(ctx, artworkURL)
func (c *Client) FetchCover(ctx context.Context, rawURL string) (*model.Cover, error) {
	data, err := c.DownloadBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching cover: %w", err)
	}
	return &model.Cover{
		Data: data,
		MIME: http.DetectContentType(data),
	}, nil
}

// IsURL reports whether the cover source looks like a remote URL rather
// than a local file path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
