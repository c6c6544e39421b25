package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Document", KeyDoc, "post", Document("post")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Source", KeySource, "src", Source("src")},
		{"Dest", KeyDest, "dst", Dest("dst")},
		{"Slug", KeySlug, "hello", Slug("hello")},
		{"ID", KeyID, "01ABC", ID("01ABC")},
		{"Asset", KeyAsset, "img.png", Asset("img.png")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.attrKey, tc.attr.Key)
			assert.Equal(t, tc.attrVal, tc.attr.Value.String())
		})
	}
}

func TestErrorAttr(t *testing.T) {
	attr := Error(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	assert.Equal(t, "", Error(nil).Value.String())
}

func TestCountAttr(t *testing.T) {
	attr := Count(3)
	assert.Equal(t, KeyCount, attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}
