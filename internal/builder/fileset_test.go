package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
)

func TestNewFileSetDefaultsToPrimary(t *testing.T) {
	fs := NewFileSet(nil, "")

	assert.Equal(t, []string{models.PrimaryFile}, fs.Names())
	assert.Equal(t, models.PrimaryFile, fs.Active())
	assert.Equal(t, "", fs.ActiveContent())
}

func TestNewFileSetUnknownActiveFallsBack(t *testing.T) {
	fs := NewFileSet(map[string]string{
		"index.html": "<h1>hi</h1>",
		"about.html": "<p>about</p>",
	}, "missing.html")

	assert.Equal(t, models.PrimaryFile, fs.Active())
	assert.Equal(t, []string{"index.html", "about.html"}, fs.Names())
}

func TestAddSelectsNewFile(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Add("style.css")

	assert.NoError(t, err)
	assert.Equal(t, "style.css", fs.Active())
	content, err := fs.Read("style.css")
	assert.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestAddRejectsDuplicate(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Add(models.PrimaryFile)

	assert.True(t, apperr.Is(err, apperr.CodeDuplicateName))
}

func TestAddRejectsEmptyName(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Add("")

	assert.True(t, apperr.Is(err, apperr.CodeInvalidRequest))
}

func TestAddRejectsPathElements(t *testing.T) {
	fs := NewFileSet(nil, "")

	for _, name := range []string{"../escape.html", "a/b.html", `a\b.html`, "..", "sub/../x.html"} {
		err := fs.Add(name)
		assert.True(t, apperr.Is(err, apperr.CodeInvalidRequest), "name %q must be rejected", name)
	}
	assert.Equal(t, []string{models.PrimaryFile}, fs.Names())
}

func TestDeleteLastFileRefused(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Delete(models.PrimaryFile)

	assert.True(t, apperr.Is(err, apperr.CodeLastFile))
	assert.Equal(t, []string{models.PrimaryFile}, fs.Names())
}

func TestDeleteActiveReselectsFirst(t *testing.T) {
	fs := NewFileSet(nil, "")
	assert.NoError(t, fs.Add("about.html"))
	assert.Equal(t, "about.html", fs.Active())

	err := fs.Delete("about.html")

	assert.NoError(t, err)
	assert.Equal(t, models.PrimaryFile, fs.Active())
	assert.Equal(t, []string{models.PrimaryFile}, fs.Names())
}

func TestDeleteInactiveKeepsSelection(t *testing.T) {
	fs := NewFileSet(nil, "")
	assert.NoError(t, fs.Add("a.html"))
	assert.NoError(t, fs.Add("b.html"))
	assert.NoError(t, fs.Select("b.html"))

	err := fs.Delete("a.html")

	assert.NoError(t, err)
	assert.Equal(t, "b.html", fs.Active())
}

func TestDeleteUnknownFile(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Delete("ghost.html")

	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSelectUnknownFile(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Select("ghost.html")

	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Equal(t, models.PrimaryFile, fs.Active())
}

func TestWriteAndSnapshot(t *testing.T) {
	fs := NewFileSet(nil, "")
	assert.NoError(t, fs.Write(models.PrimaryFile, "<h1>v1</h1>"))

	snap := fs.Snapshot()
	snap[models.PrimaryFile] = "mutated"

	content, err := fs.Read(models.PrimaryFile)
	assert.NoError(t, err)
	assert.Equal(t, "<h1>v1</h1>", content, "snapshot must be a copy")
}

func TestWriteUnknownFile(t *testing.T) {
	fs := NewFileSet(nil, "")

	err := fs.Write("ghost.html", "x")

	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
