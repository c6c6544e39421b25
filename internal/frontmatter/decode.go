package frontmatter

import "strings"

// Decode parses a document into its header and body.
//
// The header dialect is deliberately narrow: one `key: value` per line,
// optional surrounding quotes on the value, inline `[a, b]` lists, and block
// lists of `- item` lines under a bare `key:` line. Blank lines and `#`
// comments are skipped. Decode never fails; anything that does not look like
// a header leaves the header empty and the whole input as the body.
func Decode(content []byte) (*Header, []byte, Style) {
	raw, body, had, style := Split(content)
	h := &Header{}
	if !had {
		return h, body, style
	}

	lines := strings.Split(string(raw), "\n")

	// A bare `key:` line opens a pending block list; it settles to an empty
	// string when no `- item` lines follow.
	pendingKey := ""
	var pendingItems []string
	flush := func() {
		if pendingKey == "" {
			return
		}
		if pendingItems == nil {
			h.Set(pendingKey, String(""))
		} else {
			h.Set(pendingKey, List(pendingItems...))
		}
		pendingKey = ""
		pendingItems = nil
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if pendingKey != "" && strings.HasPrefix(trimmed, "-") {
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			item = stripQuotes(item)
			if item != "" {
				pendingItems = append(pendingItems, item)
			} else if pendingItems == nil {
				pendingItems = []string{}
			}
			continue
		}

		colon := strings.Index(trimmed, ":")
		if colon < 0 {
			// Not a key line and not a list item: ignore.
			continue
		}
		flush()

		key := strings.TrimSpace(trimmed[:colon])
		rawVal := strings.TrimSpace(trimmed[colon+1:])
		if key == "" {
			continue
		}

		if rawVal == "" {
			pendingKey = key
			continue
		}
		h.Set(key, parseScalar(rawVal))
	}
	flush()

	return h, body, style
}

func parseScalar(raw string) Value {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := raw[1 : len(raw)-1]
		items := make([]string, 0)
		for _, part := range strings.Split(inner, ",") {
			part = stripQuotes(strings.TrimSpace(part))
			if part != "" {
				items = append(items, part)
			}
		}
		return List(items...)
	}

	// Only bare true/false become booleans; quoted forms stay strings.
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	return String(stripQuotes(raw))
}

// stripQuotes removes one pair of matching surrounding quotes, single or
// double. Interior quotes are untouched.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
