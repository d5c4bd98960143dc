package page

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestExtract_ReadableText(t *testing.T) {
	raw := []byte(`<html><head><title>贴吧测试页</title></head><body>
		<div class="nav">导航 链接 首页</div>
		<article><h1>贴吧测试页</h1>
		<p>` + strings.Repeat("这是一段足够长的正文内容，用来让可读性算法把它当成主体。", 20) + `</p>
		<p>` + strings.Repeat("第二段正文同样需要足够长才能被保留下来。", 20) + `</p>
		</article></body></html>`)
	r, err := Extract(raw, "https://tieba.baidu.com/p/1")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if r.Title != "贴吧测试页" {
		t.Fatalf("unexpected title %q", r.Title)
	}
	if !strings.Contains(r.Text, "第二段正文") {
		t.Fatalf("expected body text, got %q", r.Text)
	}
}

func TestExtract_BadURL(t *testing.T) {
	if _, err := Extract([]byte("<html></html>"), "://bad"); err == nil {
		t.Fatal("expected url error")
	}
}

func TestReadable_LinesWrap(t *testing.T) {
	r := Readable{Title: "标题", Text: strings.Repeat("字", 25) + "\n\n  \nend"}
	lines := r.Lines(20)
	if lines[0] != "标题" || lines[1] != "" {
		t.Fatalf("unexpected heading lines %#v", lines[:2])
	}
	for _, line := range lines {
		if runewidth.StringWidth(line) > 20 {
			t.Fatalf("line too wide: %q", line)
		}
	}
	if lines[len(lines)-1] != "end" {
		t.Fatalf("expected blank paragraphs dropped, got %#v", lines)
	}
	if len(lines) != 2+3+1 {
		t.Fatalf("expected 6 lines, got %d: %#v", len(lines), lines)
	}
}
