package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/glabrego/forumsheet/internal/sheet"
)

func TestWriteSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := sheet.Sheet{
		Type: sheet.PageThreads,
		Rows: []sheet.Row{
			{"1", `<a href="https://tieba.baidu.com/p/101">标题 &amp; 一</a>`, "张三", "12", "10:20"},
			{"2", "无链接", "李四", "0", ""},
		},
	}
	if err := WriteSheet(path, "电影吧", s); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("电影吧")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "标题" || rows[1][1] != "标题 & 一" || rows[2][2] != "李四" {
		t.Fatalf("unexpected cells %#v", rows)
	}

	hasLink, target, err := f.GetCellHyperLink("电影吧", "B2")
	if err != nil {
		t.Fatalf("read hyperlink: %v", err)
	}
	if !hasLink || target != "https://tieba.baidu.com/p/101" {
		t.Fatalf("expected hyperlink, got %v %q", hasLink, target)
	}
	if hasLink, _, _ := f.GetCellHyperLink("电影吧", "B3"); hasLink {
		t.Fatal("expected no hyperlink on plain cell")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("/tmp", "a/b:c..."); got != filepath.Join("/tmp", "a_b_c.xlsx") {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName("out", "  "); got != filepath.Join("out", "sheet.xlsx") {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

func TestSheetName_Truncated(t *testing.T) {
	long := "一二三四五六七八九十一二三四五六七八九十一二三四五六七八九十一二三"
	if got := []rune(sheetName(long)); len(got) != maxSheetName {
		t.Fatalf("expected %d runes, got %d", maxSheetName, len(got))
	}
}
