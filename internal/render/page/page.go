// Package page renders the host page as plain readable text, shown while the
// spreadsheet view is switched off.
package page

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/mattn/go-runewidth"
)

type Readable struct {
	Title string
	Text  string
}

// Extract pulls the main article text out of a raw page.
func Extract(raw []byte, pageURL string) (Readable, error) {
	var u *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return Readable{}, fmt.Errorf("parse page url: %w", err)
		}
		u = parsed
	}
	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		return Readable{}, fmt.Errorf("extract readable content: %w", err)
	}
	return Readable{
		Title: strings.TrimSpace(article.Title),
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}

// Lines wraps the readable text to width display columns, dropping blank
// lines.
func (r Readable) Lines(width int) []string {
	var out []string
	if r.Title != "" {
		out = append(out, r.Title, "")
	}
	for _, para := range strings.Split(r.Text, "\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		if width <= 0 {
			out = append(out, para)
			continue
		}
		out = append(out, wrap(para, width)...)
	}
	return out
}

func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			w = 0
		}
		cur.WriteRune(r)
		w += rw
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
