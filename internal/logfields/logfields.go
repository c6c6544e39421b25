package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID  = "run_id"
	KeyDoc    = "document"
	KeyPath   = "path"
	KeySource = "source"
	KeyDest   = "destination"
	KeySlug   = "slug"
	KeyID     = "id"
	KeyAsset  = "asset"
	KeyCount  = "count"
	KeyError  = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr    { return slog.String(KeyRunID, id) }
func Document(d string) slog.Attr  { return slog.String(KeyDoc, d) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Source(s string) slog.Attr    { return slog.String(KeySource, s) }
func Dest(d string) slog.Attr      { return slog.String(KeyDest, d) }
func Slug(s string) slog.Attr      { return slog.String(KeySlug, s) }
func ID(id string) slog.Attr       { return slog.String(KeyID, id) }
func Asset(a string) slog.Attr     { return slog.String(KeyAsset, a) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
