package extract

import (
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/net/html"
)

func parseBody(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	body := queryFirst(doc, mustSel("body"))
	if body == nil {
		t.Fatal("fixture has no body")
	}
	return body
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestSanitize_EscapesTextAndKeepsLinks(t *testing.T) {
	body := parseBody(t, `<div>a &lt;b&gt; &amp; "c"<br><a href="/p/9">看这里</a><a href="/x"></a></div>`)
	s := Sanitizer{Base: mustURL(t, "https://tieba.baidu.com/")}
	got := s.Sanitize(body)
	want := `a &lt;b&gt; &amp; &quot;c&quot; <a href="https://tieba.baidu.com/p/9">看这里</a>`
	if got != want {
		t.Fatalf("unexpected markup\n got: %s\nwant: %s", got, want)
	}
}

func TestSanitize_DecorativeImagesYieldNoPlaceholder(t *testing.T) {
	body := parseBody(t, `<div>
		<img src="https://tb2.bdstatic.com/tb/static-common/img/tb_icon.png">
		<img src="https://gss0.bdstatic.com/portrait/item/abc">
		<img src="https://imgsa.baidu.com/forum/pic/item/pixel.gif" width="1">
		<img src="data:image/gif;base64,R0lGOD">
		<img class="BDE_Smiley smile" src="https://static.tieba.baidu.com/face/i_f25.png" alt="哈哈">
		<img class="smile" src="https://static.tieba.baidu.com/face/i_f01.png">
	</div>`)
	got := Sanitizer{}.Sanitize(body)
	if strings.Contains(got, "[图片]") {
		t.Fatalf("decorative images must not produce placeholders: %s", got)
	}
	if !strings.Contains(got, "[哈哈]") || !strings.Contains(got, "[表情]") {
		t.Fatalf("expected smile labels, got %s", got)
	}
}

func TestSanitize_ContentImageYieldsOnePlaceholder(t *testing.T) {
	body := parseBody(t, `<div>看图<img class="BDE_Image" src="https://imgsa.baidu.com/forum/pic/item/abc.jpg" width="560"><img src="https://tb2.bdstatic.com/logo.png"></div>`)
	got := Sanitizer{}.Sanitize(body)
	if n := strings.Count(got, "[图片]"); n != 1 {
		t.Fatalf("expected exactly one placeholder, got %d in %s", n, got)
	}
	if !strings.Contains(got, `src="https://imgsa.baidu.com/forum/pic/item/abc.jpg"`) {
		t.Fatalf("expected thumbnail reference, got %s", got)
	}
}

func TestSanitize_PrefersOriginalImageSource(t *testing.T) {
	body := parseBody(t, `<img src="https://imgsa.baidu.com/forum/abpic/item/small.jpg" origin-src="https://imgsa.baidu.com/forum/pic/item/big.jpg">`)
	got := Sanitizer{}.Sanitize(body)
	if !strings.Contains(got, "big.jpg") || strings.Contains(got, "small.jpg") {
		t.Fatalf("expected origin-src to win, got %s", got)
	}
}

func TestSanitize_MediaPlaceholders(t *testing.T) {
	body := parseBody(t, `<div><video src="v.mp4"></video><embed src="x.swf"><script>alert(1)</script></div>`)
	got := Sanitizer{}.Sanitize(body)
	if !strings.Contains(got, "[视频]") || !strings.Contains(got, "[媒体]") {
		t.Fatalf("expected media placeholders, got %s", got)
	}
	if strings.Contains(got, "alert") {
		t.Fatalf("script text leaked: %s", got)
	}
}

func TestSanitize_HardLimit(t *testing.T) {
	body := parseBody(t, "<p>"+strings.Repeat("a", 600)+"</p>")
	got := Sanitizer{}.Sanitize(body)
	if n := utf8.RuneCountInString(got); n > HardLimit+len(ellipsis) {
		t.Fatalf("expected at most %d runes, got %d", HardLimit+len(ellipsis), n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis marker, got suffix %q", got[len(got)-5:])
	}
}

func TestSanitize_HardLimitKeepsEntitiesAndTagsWhole(t *testing.T) {
	body := parseBody(t, "<p>"+strings.Repeat("a", 382)+strings.Repeat("&amp;", 30)+"</p>")
	got := Sanitizer{}.Sanitize(body)
	want := strings.Repeat("a", 382) + strings.Repeat("&amp;", 23) + ellipsis
	if got != want {
		t.Fatalf("expected cut before a partial entity, got tail %q", got[len(got)-12:])
	}

	body = parseBody(t, "<p>"+strings.Repeat("a", 390)+`<a href="/p/9?x=`+strings.Repeat("b", 200)+`">看</a></p>`)
	got = Sanitizer{Base: mustURL(t, "https://tieba.baidu.com/")}.Sanitize(body)
	if strings.Contains(got, "<") {
		t.Fatalf("expected partial tag dropped, got tail %q", got[len(got)-12:])
	}
	if got != strings.Repeat("a", 390)+" "+ellipsis {
		t.Fatalf("unexpected truncation, tail %q", got[len(got)-12:])
	}
}

func TestSanitize_SoftBudgetStopsDescent(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("<p>" + strings.Repeat("字", 20) + "</p>")
	}
	body := parseBody(t, b.String())
	got := Sanitizer{}.Sanitize(body)
	// 21 paragraphs of 20 runes cross the 400 budget; the rest are skipped.
	if n := strings.Count(got, strings.Repeat("字", 20)); n != 21 {
		t.Fatalf("expected 21 paragraphs before the budget stop, got %d", n)
	}
}

func TestSanitize_SkipMatcher(t *testing.T) {
	body := parseBody(t, `<div>正文<div class="lzl_panel_container">楼中楼</div></div>`)
	got := Sanitizer{Skip: selPostSkip}.Sanitize(body)
	if got != "正文" {
		t.Fatalf("expected skipped panel, got %q", got)
	}
}

func TestSanitize_NilNode(t *testing.T) {
	if got := (Sanitizer{}).Sanitize(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
