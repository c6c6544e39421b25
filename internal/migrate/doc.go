package migrate

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitemigrate/internal/frontmatter"
)

// document is one content unit in flight: decoded header, raw body, and the
// formatting style needed to write it back faithfully.
type document struct {
	header *frontmatter.Header
	body   []byte
	style  frontmatter.Style
}

// readDocument loads and decodes a document file. Decoding cannot fail;
// only the read can.
func readDocument(path string) (*document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	header, body, style := frontmatter.Decode(content)
	return &document{header: header, body: body, style: style}, nil
}

// writeDocument encodes and persists a document, creating its directory.
func writeDocument(path string, doc *document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, frontmatter.Encode(doc.header, doc.body, doc.style), 0o644)
}
