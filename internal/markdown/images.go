// Package markdown provides the minimal Markdown analysis the migration
// tools need: locating image references with byte offsets, and applying
// targeted byte-range edits without re-rendering.
package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ImageRef is one image reference found in a body.
//
// Start and End are byte offsets of the destination (path) component only,
// so a rewrite leaves alt text and surrounding syntax untouched.
type ImageRef struct {
	Destination string
	Start       int
	End         int
}

// Matches ![alt](dest) and ![alt](dest "title"); group 1 is the destination.
var imagePattern = regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)[^)]*\)`)

// ExtractImageRefs finds inline image references with their destination
// byte spans.
//
// A line scanner provides offsets (fenced and indented code blocks and
// inline code spans are skipped); a Goldmark AST parse of the same body then
// acts as an arbiter, so only destinations CommonMark also reads as images
// survive. The combination mirrors strict-plus-permissive link extraction:
// offsets from the permissive pass, correctness from the strict one.
func ExtractImageRefs(body []byte) []ImageRef {
	confirmed := imageDestinations(body)

	src := string(body)
	refs := make([]ImageRef, 0)

	inCodeBlock := false
	activeFence := ""

	offset := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		for _, m := range imagePattern.FindAllStringSubmatchIndex(line, -1) {
			destStart, destEnd := m[2], m[3]
			dest := line[destStart:destEnd]
			if insideCodeSpan(line, m[0]) {
				continue
			}
			if _, ok := confirmed[dest]; !ok {
				continue
			}
			refs = append(refs, ImageRef{
				Destination: dest,
				Start:       lineStart + destStart,
				End:         lineStart + destEnd,
			})
		}
	}

	return refs
}

// imageDestinations parses body as CommonMark and collects the destinations
// of all image nodes.
func imageDestinations(body []byte) map[string]struct{} {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	out := make(map[string]struct{})
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if img, ok := n.(*gmast.Image); ok {
			out[string(img.Destination)] = struct{}{}
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

// insideCodeSpan reports whether pos in line falls inside an inline code
// span, judged by backtick parity before the position.
func insideCodeSpan(line string, pos int) bool {
	return strings.Count(line[:pos], "`")%2 == 1
}
