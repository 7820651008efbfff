package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docset"
	main "github.com/fwojciec/docset/cmd/docset"
	"github.com/fwojciec/docset/mock"
	"github.com/fwojciec/docset/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SphinxEndToEnd(t *testing.T) {
	t.Parallel()

	source := writeSphinxTree(t)
	dest := t.TempDir()
	bundlePath := filepath.Join(dest, "bar.docset")

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{source, "-n", "bar", "-d", dest}, stdout, stderr)
	require.NoError(t, err)

	want := fmt.Sprintf("Converting sphinx docs from %q to %q.\n", source, bundlePath) +
		"Parsing HTML...\n" +
		"Added 2 index entries.\n" +
		"Adding table of contents meta data...\n"
	assert.Equal(t, want, stdout.String())

	// Bundle layout.
	plistRaw, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(plistRaw), "<key>CFBundleIdentifier</key>")
	assert.Contains(t, string(plistRaw), "<string>bar</string>")

	// Search index rows.
	assert.Equal(t, [][3]string{
		{"Widget", "Class", "api.html#Widget"},
		{"render", "Method", "api.html#render"},
	}, queryIndex(t, filepath.Join(bundlePath, "Contents", "Resources", "docSet.dsidx")))

	// Copied page got its anchors patched in place.
	page, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Resources", "Documents", "api.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a name="//apple_ref/cpp/Class/Widget" class="dashAnchor"></a><dt id="Widget">`)
	assert.Contains(t, string(page), `<a name="//apple_ref/cpp/Method/render" class="dashAnchor"></a><dt id="render">`)
}

func TestRun_Messages(t *testing.T) {
	t.Parallel()

	t.Run("quiet suppresses progress output", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{writeSphinxTree(t), "-d", t.TempDir(), "-q"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Empty(t, stdout.String())
	})

	t.Run("verbose reports a rolling entry count", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{writeSphinxTree(t), "-d", t.TempDir(), "-v"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "indexed 1 entries (1 added)")
	})

	t.Run("quiet and verbose conflict", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()

		err := m.Run(context.Background(), []string{t.TempDir(), "-q", "-v"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, 1, main.ExitStatus(err))
	})
}

func TestRun_UnknownDocType(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	m := main.NewMain()

	err := m.Run(context.Background(), []string{t.TempDir(), "-d", dest}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, docset.EUNSUPPORTED, docset.ErrorCode(err))
	assert.Equal(t, 22, main.ExitStatus(err))

	// Nothing was created.
	left, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRun_ExistingDestination(t *testing.T) {
	t.Parallel()

	t.Run("refused without force", func(t *testing.T) {
		t.Parallel()

		source := writeSphinxTree(t)
		dest := t.TempDir()
		marker := filepath.Join(dest, filepath.Base(source)+".docset", "marker")
		require.NoError(t, os.MkdirAll(filepath.Dir(marker), 0o755))
		require.NoError(t, os.WriteFile(marker, []byte("keep"), 0o644))

		m := main.NewMain()
		err := m.Run(context.Background(), []string{source, "-d", dest}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, docset.ECONFLICT, docset.ErrorCode(err))
		assert.Equal(t, 17, main.ExitStatus(err))

		// The existing directory is untouched.
		_, err = os.Stat(marker)
		assert.NoError(t, err)
	})

	t.Run("replaced with force", func(t *testing.T) {
		t.Parallel()

		source := writeSphinxTree(t)
		dest := t.TempDir()
		bundlePath := filepath.Join(dest, filepath.Base(source)+".docset")
		marker := filepath.Join(bundlePath, "marker")
		require.NoError(t, os.MkdirAll(bundlePath, 0o755))
		require.NoError(t, os.WriteFile(marker, []byte("old"), 0o644))

		m := main.NewMain()
		err := m.Run(context.Background(), []string{source, "-d", dest, "-f"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		_, err = os.Stat(marker)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(bundlePath, "Contents", "Info.plist"))
		assert.NoError(t, err)
	})
}

func TestRun_Icon(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-PNG icons before converting", func(t *testing.T) {
		t.Parallel()

		icon := filepath.Join(t.TempDir(), "bar.png")
		require.NoError(t, os.WriteFile(icon, []byte("GIF89afoobarbaz"), 0o644))
		source := writeSphinxTree(t)
		dest := t.TempDir()

		m := main.NewMain()
		err := m.Run(context.Background(), []string{source, "-d", dest, "-i", icon}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a valid PNG image")
		assert.Equal(t, 1, main.ExitStatus(err))

		// Nothing was built.
		_, err = os.Stat(filepath.Join(dest, filepath.Base(source)+".docset"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("installs a valid icon into the bundle", func(t *testing.T) {
		t.Parallel()

		pngBytes := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
		icon := filepath.Join(t.TempDir(), "icon.png")
		require.NoError(t, os.WriteFile(icon, pngBytes, 0o644))
		source := writeSphinxTree(t)
		dest := t.TempDir()

		m := main.NewMain()
		err := m.Run(context.Background(), []string{source, "-n", "bar", "-d", dest, "-i", icon}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		installed, err := os.ReadFile(filepath.Join(dest, "bar.docset", "icon.png"))
		require.NoError(t, err)
		assert.Equal(t, pngBytes, installed)
	})
}

func TestRun_AddToDash(t *testing.T) {
	t.Parallel()

	var opened []string
	m := main.NewMain()
	m.Parsers = singleEntryRegistry("testtype")
	m.Normalizer = testTypeNormalizer()
	m.Viewer = func(ctx context.Context, path string) error {
		opened = append(opened, path)
		return nil
	}

	source := t.TempDir()
	dest := t.TempDir()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{source, "-n", "bar", "-d", dest, "-a"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	bundlePath := filepath.Join(dest, "bar.docset")
	assert.Equal(t, []string{bundlePath}, opened)
	assert.Contains(t, stdout.String(), "Converting testtype docs")
	assert.Contains(t, stdout.String(), "Added 1 index entries.\n")
	assert.Contains(t, stdout.String(), "Adding to dash...\n")
	assert.Equal(t, [][3]string{{"testmethod", "Method", "testpath"}},
		queryIndex(t, filepath.Join(bundlePath, "Contents", "Resources", "docSet.dsidx")))
}

func TestRun_AddToGlobal(t *testing.T) {
	t.Parallel()

	var opened []string
	global := t.TempDir()

	m := main.NewMain()
	m.GlobalDir = global
	m.Parsers = singleEntryRegistry("testtype")
	m.Normalizer = testTypeNormalizer()
	m.Viewer = func(ctx context.Context, path string) error {
		opened = append(opened, path)
		return nil
	}

	// -A overrides the destination flag entirely.
	err := m.Run(context.Background(), []string{t.TempDir(), "-n", "bar", "-d", t.TempDir(), "-A"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	bundlePath := filepath.Join(global, "bar.docset")
	assert.Equal(t, []string{bundlePath}, opened)
	_, err = os.Stat(filepath.Join(bundlePath, "Contents", "Info.plist"))
	assert.NoError(t, err)
}

func TestRun_NameDeduction(t *testing.T) {
	t.Parallel()

	t.Run("uses the source basename with a trailing separator", func(t *testing.T) {
		t.Parallel()

		source := writeSphinxTree(t)
		dest := t.TempDir()

		m := main.NewMain()
		err := m.Run(context.Background(), []string{source + string(filepath.Separator), "-d", dest}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dest, filepath.Base(source)+".docset"))
		assert.NoError(t, err)
	})

	t.Run("strips a user supplied docset suffix", func(t *testing.T) {
		t.Parallel()

		dest := t.TempDir()

		m := main.NewMain()
		err := m.Run(context.Background(), []string{writeSphinxTree(t), "-n", "baz.docset", "-d", dest}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		plistRaw, err := os.ReadFile(filepath.Join(dest, "baz.docset", "Contents", "Info.plist"))
		require.NoError(t, err)
		assert.Contains(t, string(plistRaw), "<string>baz</string>")
	})
}

func TestRun_NoArguments(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 1, main.ExitStatus(err))
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestGlobalDirOverride(t *testing.T) {
	t.Setenv("DOCSET_GLOBAL", "/tmp/custom-docsets")

	m := main.NewMain()
	assert.Equal(t, "/tmp/custom-docsets", m.GlobalDir)
}

// writeSphinxTree lays out a minimal Sphinx build with two index
// entries pointing into api.html.
func writeSphinxTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("objects.inv", "# Sphinx inventory version 2\n")
	write("genindex.html", `<html><body>
<table class="genindextable"><tr><td><ul>
<li><a href="api.html#Widget">Widget (class in api)</a></li>
<li><a href="api.html#render">render() (Widget method)</a></li>
</ul></td></tr></table>
</body></html>`)
	write("api.html", `<html><body><dl class="py class">
<dt id="Widget">Widget</dt>
<dt id="render">render</dt>
</dl></body></html>`)

	return dir
}

// testTypeNormalizer maps the fake format's single raw label.
func testTypeNormalizer() *docset.Normalizer {
	return docset.NewNormalizer(map[docset.Format]docset.TypeTable{
		"testtype": {"method": docset.TypeMethod},
	})
}

// singleEntryRegistry fakes detection of a format that yields one
// method entry.
func singleEntryRegistry(format docset.Format) docset.ParserRegistry {
	parser := &mock.Parser{
		NameFn:   func() docset.Format { return format },
		DetectFn: func(root string) bool { return true },
		ParseFn: func(ctx context.Context, root string) <-chan docset.ParseResult {
			ch := make(chan docset.ParseResult, 1)
			ch <- docset.ParseResult{Entry: docset.RawEntry{Name: "testmethod", Type: "method", Path: "testpath"}}
			close(ch)
			return ch
		},
	}
	return &mock.ParserRegistry{
		DetectFn: func(root string) (docset.Parser, error) { return parser, nil },
	}
}

// queryIndex reads the searchIndex rows back, ordered by name.
func queryIndex(t *testing.T, path string) [][3]string {
	t.Helper()

	db := sqlite.NewDB(path)
	require.NoError(t, db.Open())
	defer db.Close()

	rows, err := db.QueryContext(context.Background(), "SELECT name, type, path FROM searchIndex ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var got [][3]string
	for rows.Next() {
		var name, typ, p string
		require.NoError(t, rows.Scan(&name, &typ, &p))
		got = append(got, [3]string{name, typ, p})
	}
	require.NoError(t, rows.Err())
	return got
}
