package builder

import (
	"strings"
	"sync"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
)

// FileSet holds the named documents of one project along with the selection
// of the file currently being edited. Deletion never empties the set.
type FileSet struct {
	mu     sync.Mutex
	files  map[string]string
	order  []string
	active string
}

// NewFileSet builds a set from existing contents. A nil or empty map yields
// the single primary file with empty contents. An unknown active name falls
// back to the first file.
func NewFileSet(files map[string]string, active string) *FileSet {
	fs := &FileSet{files: make(map[string]string)}
	if len(files) == 0 {
		fs.files[models.PrimaryFile] = ""
		fs.order = []string{models.PrimaryFile}
		fs.active = models.PrimaryFile
		return fs
	}
	if _, ok := files[models.PrimaryFile]; ok {
		fs.files[models.PrimaryFile] = files[models.PrimaryFile]
		fs.order = append(fs.order, models.PrimaryFile)
	}
	for name, content := range files {
		if name == models.PrimaryFile {
			continue
		}
		fs.files[name] = content
		fs.order = append(fs.order, name)
	}
	sortTail(fs.order)
	if _, ok := fs.files[active]; ok {
		fs.active = active
	} else {
		fs.active = fs.order[0]
	}
	return fs
}

// sortTail orders everything after the primary file alphabetically so
// hydration from a stored map is deterministic.
func sortTail(order []string) {
	start := 0
	if len(order) > 0 && order[0] == models.PrimaryFile {
		start = 1
	}
	tail := order[start:]
	for i := 1; i < len(tail); i++ {
		for j := i; j > 0 && tail[j] < tail[j-1]; j-- {
			tail[j], tail[j-1] = tail[j-1], tail[j]
		}
	}
}

// Add creates an empty file and selects it.
func (fs *FileSet) Add(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if name == "" {
		return apperr.NewInvalidRequest("file name is required")
	}
	// Names become paths on export and publish, so they must stay flat.
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return apperr.NewInvalidRequest("file name must not contain path elements")
	}
	if _, exists := fs.files[name]; exists {
		return apperr.NewDuplicateName(name)
	}
	fs.files[name] = ""
	fs.order = append(fs.order, name)
	fs.active = name
	return nil
}

// Delete removes a file. The last remaining file cannot be deleted. When the
// active file is removed, selection moves to the first file in insertion
// order.
func (fs *FileSet) Delete(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, exists := fs.files[name]; !exists {
		return apperr.NewNotFound("file", name)
	}
	if len(fs.files) == 1 {
		return apperr.NewLastFile(name)
	}
	delete(fs.files, name)
	for i, n := range fs.order {
		if n == name {
			fs.order = append(fs.order[:i], fs.order[i+1:]...)
			break
		}
	}
	if fs.active == name {
		fs.active = fs.order[0]
	}
	return nil
}

// Select switches the active file.
func (fs *FileSet) Select(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, exists := fs.files[name]; !exists {
		return apperr.NewNotFound("file", name)
	}
	fs.active = name
	return nil
}

// Write replaces the contents of a file.
func (fs *FileSet) Write(name, content string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, exists := fs.files[name]; !exists {
		return apperr.NewNotFound("file", name)
	}
	fs.files[name] = content
	return nil
}

// Read returns the contents of one file.
func (fs *FileSet) Read(name string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, exists := fs.files[name]
	if !exists {
		return "", apperr.NewNotFound("file", name)
	}
	return content, nil
}

// Active returns the selected file name.
func (fs *FileSet) Active() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.active
}

// ActiveContent returns the contents of the selected file.
func (fs *FileSet) ActiveContent() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.files[fs.active]
}

// Names returns the file names in insertion order.
func (fs *FileSet) Names() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := make([]string, len(fs.order))
	copy(names, fs.order)
	return names
}

// Snapshot returns a copy of the full name-to-contents map.
func (fs *FileSet) Snapshot() map[string]string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make(map[string]string, len(fs.files))
	for name, content := range fs.files {
		out[name] = content
	}
	return out
}
