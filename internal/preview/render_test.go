package preview

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapDocument(t *testing.T) {
	doc := WrapDocument("<h1>hi</h1>")

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<meta charset="UTF-8">`)
	assert.Contains(t, doc, `width=device-width, initial-scale=1.0`)
	assert.Contains(t, doc, "body { margin: 0; padding: 0; }")
	assert.Contains(t, doc, "<body><h1>hi</h1></body>")
}

func TestStandaloneDocumentWrapsFragments(t *testing.T) {
	doc := StandaloneDocument("<h1>hi</h1>")

	assert.Contains(t, doc, `<html lang="en">`)
	assert.Contains(t, doc, "<title>My Website</title>")
	assert.Contains(t, doc, "<h1>hi</h1>")
}

func TestStandaloneDocumentKeepsCompletePages(t *testing.T) {
	full := "<!DOCTYPE html><html><head></head><body>x</body></html>"

	assert.Equal(t, full, StandaloneDocument(full))
	assert.Equal(t, "<html><body>y</body></html>", StandaloneDocument("<html><body>y</body></html>"))
}

func TestDevicePresets(t *testing.T) {
	presets := DevicePresets()

	require.Len(t, presets, 3)
	assert.Equal(t, DevicePreset{Name: "desktop", Width: 0}, presets[0])
	assert.Equal(t, DevicePreset{Name: "tablet", Width: 768}, presets[1])
	assert.Equal(t, DevicePreset{Name: "mobile", Width: 375}, presets[2])
}

func TestArchiveContainsStandaloneDocuments(t *testing.T) {
	data, err := Archive(map[string]string{
		"index.html": "<h1>home</h1>",
		"about.html": "<p>about</p>",
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "about.html", zr.File[0].Name)
	assert.Equal(t, "index.html", zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<!DOCTYPE html>")
	assert.Contains(t, string(content), "<h1>home</h1>")
}

func TestArchiveEmptyProject(t *testing.T) {
	_, err := Archive(nil)

	assert.ErrorContains(t, err, "no files")
}
