package sheet

import "strings"

// PageType selects the row shape and header template of a sheet.
type PageType string

const (
	PageHome    PageType = "home"
	PageThreads PageType = "threads"
	PageForms   PageType = "forms"
)

const (
	HomeKey       = "__home__"
	PostKeyPrefix = "__post__"
)

// Row is one fixed-arity tuple of pre-rendered inline markup cells.
type Row []string

// Sheet is a fully populated, named collection of rows for one data source.
type Sheet struct {
	Key       string
	Type      PageType
	Rows      []Row
	SourceURL string
}

var headers = map[PageType][]string{
	PageThreads: {"序号", "标题", "作者", "回复", "最后回复"},
	PageForms:   {"楼层", "作者", "内容", "时间"},
	PageHome:    {"序号", "来源", "标题", "摘要", "作者", "时间"},
}

// Headers returns the column header template for a page type. Unknown types
// fall back to the home template.
func Headers(t PageType) []string {
	h, ok := headers[t]
	if !ok {
		h = headers[PageHome]
	}
	return append([]string(nil), h...)
}

// Arity is the number of cells every row of the given page type carries.
func Arity(t PageType) int {
	h, ok := headers[t]
	if !ok {
		h = headers[PageHome]
	}
	return len(h)
}

// PostKey derives the sheet key of a thread page; query and fragment do not
// take part in the identity.
func PostKey(threadURL string) string {
	if i := strings.IndexAny(threadURL, "?#"); i >= 0 {
		threadURL = threadURL[:i]
	}
	return PostKeyPrefix + threadURL
}

func IsPostKey(key string) bool {
	return strings.HasPrefix(key, PostKeyPrefix)
}

func (s Sheet) Len() int {
	return len(s.Rows)
}

func (s Sheet) clone() Sheet {
	rows := make([]Row, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = append(Row(nil), row...)
	}
	s.Rows = rows
	return s
}
