package assets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func quietLocator(opts Options) *Locator {
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLocator(opts)
}

func TestFindLocalRefs_ExcludesRemoteAndData(t *testing.T) {
	body := []byte("![a](local.png)\n" +
		"![b](https://example.com/remote.png)\n" +
		"![c](//cdn.example.com/x.png)\n" +
		"![d](data:image/png;base64,AAAA)\n" +
		"![e](images/deep.png)\n")

	refs := FindLocalRefs(body)
	require.Len(t, refs, 2)
	assert.Equal(t, "local.png", refs[0].Destination)
	assert.Equal(t, "images/deep.png", refs[1].Destination)
}

func TestRelocate_CopiesAndRewrites(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "images", "chart.png"), []byte("png-bytes"))

	body := []byte("before\n\n![A chart](images/chart.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 1)

	l := quietLocator(Options{})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 1)
	assert.Equal(t, "assets/chart.png", relocated[0].NewRef)

	copied, err := os.ReadFile(filepath.Join(targetDir, "assets", "chart.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), copied)

	out, err := Rewrite(body, relocated)
	require.NoError(t, err)
	assert.Equal(t, "before\n\n![A chart](assets/chart.png)\n", string(out))
}

func TestRelocate_RootedReferenceResolvesAgainstSourceRoot(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "static", "logo.png"), []byte("x"))

	body := []byte("![logo](/static/logo.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 1)

	l := quietLocator(Options{})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 1)
	assert.FileExists(t, filepath.Join(targetDir, "assets", "logo.png"))
}

func TestRelocate_MissingSource_LeftUntouched(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()

	body := []byte("![gone](missing.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 1)

	l := quietLocator(Options{})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	assert.Empty(t, relocated)

	out, err := Rewrite(body, relocated)
	require.NoError(t, err)
	assert.Equal(t, body, out)
	assert.NoDirExists(t, filepath.Join(targetDir, "assets"))
}

func TestRelocate_DuplicateSameSource_CopiedOnce(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "pic.png"), []byte("content"))

	body := []byte("![one](pic.png)\n\n![two](pic.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 2)

	l := quietLocator(Options{})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 2)
	assert.Equal(t, relocated[0].NewRef, relocated[1].NewRef)
}

func TestRelocate_FilenameCollision_FirstFileWins(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "a", "img.png"), []byte("first"))
	writeFile(t, filepath.Join(srcRoot, "b", "img.png"), []byte("second"))

	body := []byte("![x](a/img.png)\n\n![y](b/img.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 2)

	l := quietLocator(Options{})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 2)

	// Both references rewritten to the same target; first copy is kept.
	assert.Equal(t, "assets/img.png", relocated[0].NewRef)
	assert.Equal(t, "assets/img.png", relocated[1].NewRef)

	kept, err := os.ReadFile(filepath.Join(targetDir, "assets", "img.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), kept)
}

func TestRelocate_RenameColliding_SuffixesContentHash(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "a", "img.png"), []byte("first"))
	writeFile(t, filepath.Join(srcRoot, "b", "img.png"), []byte("second"))

	body := []byte("![x](a/img.png)\n\n![y](b/img.png)\n")
	refs := FindLocalRefs(body)

	l := quietLocator(Options{RenameColliding: true})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 2)

	assert.Equal(t, "assets/img.png", relocated[0].NewRef)
	assert.NotEqual(t, relocated[0].NewRef, relocated[1].NewRef)
	assert.FileExists(t, relocated[1].Target)

	kept, err := os.ReadFile(relocated[1].Target)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), kept)
}

func TestRelocate_DryRun_NoWrites(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "pic.png"), []byte("content"))

	body := []byte("![one](pic.png)\n")
	refs := FindLocalRefs(body)

	l := quietLocator(Options{DryRun: true})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 1)
	assert.Equal(t, "assets/pic.png", relocated[0].NewRef)

	assert.NoDirExists(t, filepath.Join(targetDir, "assets"))
}

func TestRelocate_CustomPrefixAndDirName(t *testing.T) {
	srcRoot := t.TempDir()
	targetDir := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "pic.png"), []byte("content"))

	body := []byte("![one](pic.png)\n")
	refs := FindLocalRefs(body)

	l := quietLocator(Options{DirName: "media", RefPrefix: "./media"})
	relocated := l.Relocate(refs, srcRoot, targetDir)
	require.Len(t, relocated, 1)
	assert.Equal(t, "media/pic.png", relocated[0].NewRef)
	assert.FileExists(t, filepath.Join(targetDir, "media", "pic.png"))
}

func TestRelocate_MissingSource_WarnsWithClassifiedError(t *testing.T) {
	var buf bytes.Buffer
	l := NewLocator(Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	body := []byte("![x](gone.png)\n")
	refs := FindLocalRefs(body)
	require.Len(t, refs, 1)

	relocated := l.Relocate(refs, t.TempDir(), t.TempDir())
	assert.Empty(t, relocated)

	logged := buf.String()
	assert.Contains(t, logged, "level=WARN")
	assert.Contains(t, logged, "asset (warning): referenced asset not found")
}
