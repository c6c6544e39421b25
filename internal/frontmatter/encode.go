package frontmatter

import "strings"

// Keys whose string values are always quoted on output. These carry
// free-form prose that routinely contains colons and other characters the
// decoder would misread.
var quotedKeys = map[string]bool{
	"title":       true,
	"description": true,
	"author":      true,
	"summary":     true,
}

// Encode serializes a header and body back into document form using the
// given newline style. An empty header yields the body unchanged, mirroring
// how Decode treats header-less input.
func Encode(h *Header, body []byte, style Style) []byte {
	if h == nil || h.Len() == 0 {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	var b strings.Builder
	for _, f := range h.Fields() {
		switch f.Value.Kind() {
		case KindBool:
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(f.Value.Text())
			b.WriteString(nl)
		case KindList:
			items := f.Value.List()
			if len(items) == 0 {
				b.WriteString(f.Key)
				b.WriteString(": []")
				b.WriteString(nl)
				continue
			}
			b.WriteString(f.Key)
			b.WriteString(":")
			b.WriteString(nl)
			for _, item := range items {
				b.WriteString("  - ")
				b.WriteString(quoteIfNeeded(item, false))
				b.WriteString(nl)
			}
		default:
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(quoteIfNeeded(f.Value.Text(), quotedKeys[f.Key]))
			b.WriteString(nl)
		}
	}

	return Join([]byte(b.String()), body, true, style)
}

// quoteIfNeeded wraps s in quotes when leaving it bare would change how it
// decodes: empty strings, strings with structural characters, and strings
// that would be re-read as booleans or lists.
func quoteIfNeeded(s string, force bool) string {
	if force || needsQuote(s) {
		if strings.Contains(s, `"`) && !strings.Contains(s, "'") {
			return "'" + s + "'"
		}
		return `"` + s + `"`
	}
	return s
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	if s == "true" || s == "false" {
		return true
	}
	if strings.ContainsAny(s, ":#") {
		return true
	}
	switch s[0] {
	case '-', '[', '\'', '"':
		return true
	}
	return false
}
