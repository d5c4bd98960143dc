package forum

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/glabrego/forumsheet/internal/sheet"
)

var (
	reThreadPath = regexp.MustCompile(`/p/(\d+)`)
	reForumQuery = regexp.MustCompile(`/f\?kw=`)
	reKeyword    = regexp.MustCompile(`kw=([^&#]+)`)
)

// IsThreadLink reports whether href points at a thread page (/p/<id>).
func IsThreadLink(href string) bool {
	return reThreadPath.MatchString(href)
}

// IsForumLink reports whether href points at a forum section (/f?kw=).
func IsForumLink(href string) bool {
	return reForumQuery.MatchString(href)
}

// ThreadID extracts the numeric thread id from a thread URL.
func ThreadID(href string) string {
	m := reThreadPath.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ForumKeyword extracts and decodes the kw= query value.
func ForumKeyword(href string) string {
	m := reKeyword.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	kw, err := url.QueryUnescape(m[1])
	if err != nil {
		return m[1]
	}
	return kw
}

func ForumURL(baseURL, keyword string) string {
	return strings.TrimRight(baseURL, "/") + "/f?kw=" + url.QueryEscape(keyword)
}

func PostURL(baseURL, threadID string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + threadID
}

// CommentURL is the paginated reply listing of one floor.
func CommentURL(baseURL, threadID, postID string, page int) string {
	q := make(url.Values)
	q.Set("tid", threadID)
	q.Set("pid", postID)
	q.Set("pn", strconv.Itoa(page))
	return strings.TrimRight(baseURL, "/") + "/p/comment?" + q.Encode()
}

// PageTypeFor classifies a page URL the way the sheet header templates expect.
func PageTypeFor(rawURL string) sheet.PageType {
	switch {
	case IsThreadLink(rawURL):
		return sheet.PageForms
	case IsForumLink(rawURL):
		return sheet.PageThreads
	default:
		return sheet.PageHome
	}
}

// Resolve turns href into an absolute URL against base. Unparseable input is
// returned trimmed but otherwise untouched.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
