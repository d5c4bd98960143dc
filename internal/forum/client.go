package forum

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/singleflight"
)

const (
	maxBodyBytes     = 8 << 20
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// FetchError is a network or payload failure for one URL.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Page is a fetched page: the decoded, comment-stripped payload and its tree.
type Page struct {
	URL string
	Raw []byte
	Doc *html.Node
}

type Client struct {
	baseURL string
	cookie  string
	http    *http.Client
	logger  *log.Logger
	group   singleflight.Group
}

func NewClient(baseURL, cookie string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cookie:  cookie,
		http:    httpClient,
		logger:  logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchDocument fetches rawURL and returns its parsed tree.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) (*html.Node, error) {
	page, err := c.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return page.Doc, nil
}

// FetchPage fetches rawURL. Concurrent calls for the same URL share one
// request; the returned tree must be treated as read-only.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (Page, error) {
	v, err, shared := c.group.Do(rawURL, func() (any, error) {
		return c.fetch(ctx, rawURL)
	})
	if shared {
		c.logger.Debug("fetch.shared", "url", rawURL)
	}
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, &FetchError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("fetch.failed", "url", rawURL, "err", err)
		return Page{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("fetch.status", "url", rawURL, "status", resp.StatusCode)
		return Page{}, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}

	page, err := ParsePage(rawURL, body, resp.Header.Get("Content-Type"))
	if err != nil {
		return Page{}, err
	}
	c.logger.Debug("fetch.done", "url", rawURL, "bytes", len(body), "took", time.Since(start))
	return page, nil
}

// ReadFile loads a saved page from disk as if it had been fetched from pageURL.
func ReadFile(path, pageURL string) (Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read page file: %w", err)
	}
	return ParsePage(pageURL, raw, "text/html")
}

// ParsePage decodes raw to UTF-8, strips comment markers and parses the result.
func ParsePage(pageURL string, raw []byte, contentType string) (Page, error) {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return Page{}, &FetchError{URL: pageURL, Err: fmt.Errorf("decode charset: %w", err)}
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return Page{}, &FetchError{URL: pageURL, Err: fmt.Errorf("decode body: %w", err)}
	}
	stripped := StripCommentMarkers(decoded)
	doc, err := html.Parse(bytes.NewReader(stripped))
	if err != nil {
		return Page{}, &FetchError{URL: pageURL, Err: fmt.Errorf("parse html: %w", err)}
	}
	return Page{URL: pageURL, Raw: stripped, Doc: doc}, nil
}

// StripCommentMarkers removes literal "<!--" and "-->" sequences. Some forum
// pages ship whole sections inside comments to defer their rendering.
func StripCommentMarkers(raw []byte) []byte {
	out := bytes.ReplaceAll(raw, []byte("<!--"), nil)
	return bytes.ReplaceAll(out, []byte("-->"), nil)
}
