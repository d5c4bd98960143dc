package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a loosely typed key/value view over an embedded data attribute.
type Record map[string]any

// ParseLenient decodes a structured data attribute. Anything that is not a
// JSON object is reported as absent.
func ParseLenient(text string) (Record, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, false
	}
	return Record(rec), true
}

func (r Record) lookup(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path rendered as a string. Numbers keep their
// source text; objects, arrays and null yield "".
func (r Record) String(path ...string) string {
	v, ok := r.lookup(path...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Int returns the value at path as an integer, parsing numeric strings. Any
// other shape yields 0.
func (r Record) Int(path ...string) int {
	s := r.String(path...)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
