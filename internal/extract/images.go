package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var decorativeMarkers = []string{
	"tb_icon", "tieba_default", "f_header_", "portrait", "face/item",
	"/sys/", "icon", "logo", "emoji", "static/img",
}

const minImageWidth = 10

// imageSource picks the first populated source attribute, in order.
func imageSource(img *html.Node, attrs ...string) string {
	for _, name := range attrs {
		if v := strings.TrimSpace(attr(img, name)); v != "" {
			return v
		}
	}
	return ""
}

// IsDecorativeImage reports whether an image is chrome (icons, avatars,
// emoji, logos, tracking pixels) rather than content.
func IsDecorativeImage(src, width string) bool {
	lc := strings.ToLower(src)
	for _, marker := range decorativeMarkers {
		if strings.Contains(lc, marker) {
			return true
		}
	}
	if w, err := strconv.Atoi(strings.TrimSpace(width)); err == nil && w < minImageWidth {
		return true
	}
	return false
}

func isInlineData(src string) bool {
	return strings.Contains(src, "data:image")
}

func imageCell(src string) string {
	return `<span class="tb__img-tag">[图片]</span><img class="tb__excel-img" src="` + escapeAttr(src) + `">`
}
