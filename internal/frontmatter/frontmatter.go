package frontmatter

import "bytes"

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline shape and does not attempt to preserve
// the original formatting of individual header lines.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

const delimiter = "---"

// Split separates the `---` delimited header region from the body.
//
// If the document does not start with a delimiter line, or starts with one but
// never closes it, had is false and body is the full input. Split never fails:
// malformed input degrades to "no header".
func Split(content []byte) (header []byte, body []byte, had bool, style Style) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style
	}

	headerStart := len(open)
	if bytes.HasPrefix(content[headerStart:], open) {
		bodyStart := headerStart + len(open)
		return []byte{}, content[bodyStart:], true, style
	}

	closeSeq := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[headerStart:], closeSeq)
	if idx < 0 {
		// A closing delimiter as the very last line (no trailing newline) still counts.
		tail := []byte(nl + delimiter)
		if bytes.HasSuffix(content[headerStart:], tail) {
			end := len(content) - len(delimiter)
			return content[headerStart:end], []byte{}, true, style
		}
		return nil, content, false, style
	}

	headerEnd := headerStart + idx + len(nl)
	bodyStart := headerStart + idx + len(closeSeq)
	return content[headerStart:headerEnd], content[bodyStart:], true, style
}

// Join reassembles a document from raw header lines and body.
//
// If had is false, Join returns body as-is.
func Join(header []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	open := []byte(delimiter + nl)

	out := make([]byte, 0, 2*len(open)+len(header)+len(body))
	out = append(out, open...)
	out = append(out, header...)
	out = append(out, open...)
	out = append(out, body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
