package forum

import (
	"net/url"
	"testing"

	"github.com/glabrego/forumsheet/internal/sheet"
)

func TestLinkShapes(t *testing.T) {
	if !IsThreadLink("https://tieba.baidu.com/p/8848?pn=2") || IsThreadLink("https://tieba.baidu.com/p/abc") {
		t.Fatal("thread link classification wrong")
	}
	if !IsForumLink("/f?kw=golang&ie=utf-8") || IsForumLink("/f?ie=utf-8") {
		t.Fatal("forum link classification wrong")
	}
	if got := ThreadID("/p/123456?fid=1"); got != "123456" {
		t.Fatalf("unexpected thread id %q", got)
	}
	if got := ForumKeyword("/f?kw=%E8%B4%B4%E5%90%A7&fr=home"); got != "贴吧" {
		t.Fatalf("unexpected keyword %q", got)
	}
	if got := ForumKeyword("/f?kw=%zz"); got != "%zz" {
		t.Fatalf("expected raw keyword on decode failure, got %q", got)
	}
}

func TestURLBuilders(t *testing.T) {
	if got := ForumURL("https://tieba.baidu.com/", "贴吧"); got != "https://tieba.baidu.com/f?kw=%E8%B4%B4%E5%90%A7" {
		t.Fatalf("unexpected forum url %q", got)
	}
	if got := PostURL("https://tieba.baidu.com", "42"); got != "https://tieba.baidu.com/p/42" {
		t.Fatalf("unexpected post url %q", got)
	}
	if got := CommentURL("https://tieba.baidu.com", "1", "2", 3); got != "https://tieba.baidu.com/p/comment?pid=2&pn=3&tid=1" {
		t.Fatalf("unexpected comment url %q", got)
	}
}

func TestPageTypeFor(t *testing.T) {
	cases := map[string]sheet.PageType{
		"https://tieba.baidu.com/":           sheet.PageHome,
		"https://tieba.baidu.com/f?kw=go":    sheet.PageThreads,
		"https://tieba.baidu.com/p/1?see_lz": sheet.PageForms,
	}
	for raw, want := range cases {
		if got := PageTypeFor(raw); got != want {
			t.Fatalf("PageTypeFor(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	base, _ := url.Parse("https://tieba.baidu.com/f?kw=go")
	if got := Resolve(base, "/p/7"); got != "https://tieba.baidu.com/p/7" {
		t.Fatalf("unexpected resolved url %q", got)
	}
	if got := Resolve(base, " https://example.com/x "); got != "https://example.com/x" {
		t.Fatalf("unexpected absolute url %q", got)
	}
	if got := Resolve(base, ""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := Resolve(nil, "/p/7"); got != "/p/7" {
		t.Fatalf("expected relative passthrough without base, got %q", got)
	}
}
