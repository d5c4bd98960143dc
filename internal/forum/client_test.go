package forum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/andybalholm/cascadia"
)

func TestFetchDocument_StripsCommentMarkersBeforeParsing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><code><!--<div class="l_post">deferred</div>--></code></body></html>`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), nil)
	doc, err := c.FetchDocument(context.Background(), ts.URL+"/p/1")
	if err != nil {
		t.Fatalf("FetchDocument returned error: %v", err)
	}
	post := cascadia.Query(doc, cascadia.MustCompile(".l_post"))
	if post == nil {
		t.Fatal("expected commented-out post to be parsed as markup")
	}
}

func TestFetchDocument_SendsCookie(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != "BDUSS=abc" {
			t.Errorf("unexpected cookie header: %q", got)
		}
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "BDUSS=abc", ts.Client(), nil)
	if _, err := c.FetchDocument(context.Background(), ts.URL); err != nil {
		t.Fatalf("FetchDocument returned error: %v", err)
	}
}

func TestFetchDocument_NonOKIsFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), nil)
	_, err := c.FetchDocument(context.Background(), ts.URL+"/f?kw=x")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T (%v)", err, err)
	}
	if fe.Status != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", fe.Status)
	}
}

func TestFetchDocument_TransportFailureIsFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url, "", nil, nil)
	_, err := c.FetchDocument(context.Background(), url)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Unwrap() == nil {
		t.Fatal("expected wrapped transport error")
	}
}

func TestFetchPage_DecodesDeclaredCharset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		// "贴吧" in GBK.
		_, _ = w.Write([]byte("<html><body><p>\xcc\xf9\xb0\xc9</p></body></html>"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), nil)
	page, err := c.FetchPage(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if !strings.Contains(string(page.Raw), "贴吧") {
		t.Fatalf("expected decoded text, got %q", page.Raw)
	}
}

func TestFetchPage_SequentialCallsEachHitNetwork(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", ts.Client(), nil)
	for i := 0; i < 2; i++ {
		if _, err := c.FetchPage(context.Background(), ts.URL); err != nil {
			t.Fatalf("FetchPage returned error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestReadFile_ParsesSavedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(`<html><body><!--<a href="/p/9">x</a>--></body></html>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	page, err := ReadFile(path, "https://tieba.baidu.com/")
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if cascadia.Query(page.Doc, cascadia.MustCompile(`a[href="/p/9"]`)) == nil {
		t.Fatal("expected link from stripped comment")
	}
}

func TestStripCommentMarkers(t *testing.T) {
	got := string(StripCommentMarkers([]byte("a<!--b-->c<!--")))
	if got != "abc" {
		t.Fatalf("unexpected stripped payload: %q", got)
	}
}
