package builder

import (
	"sync"
	"time"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
)

// DebounceDelay is how long the primary file must stay unchanged before a
// snapshot is recorded.
const DebounceDelay = 3 * time.Second

// CaptureFunc persists the ledger of a conversation after a snapshot is
// recorded or removed.
type CaptureFunc func(conversationID string, versions []models.Version)

// Workspace is the in-memory editing state for the selected conversation:
// its file set, its version ledger, and the capture debouncer. Only one
// conversation is hydrated at a time.
type Workspace struct {
	mu             sync.Mutex
	conversationID string
	files          *FileSet
	ledger         *Ledger
	generating     bool
	lastDesc       string
	debounce       *Debouncer
	onCapture      CaptureFunc
}

// NewWorkspace builds an empty workspace. onCapture may be nil.
func NewWorkspace(onCapture CaptureFunc) *Workspace {
	return NewWorkspaceWithDelay(onCapture, DebounceDelay)
}

// NewWorkspaceWithDelay builds a workspace with a custom capture delay.
func NewWorkspaceWithDelay(onCapture CaptureFunc, delay time.Duration) *Workspace {
	w := &Workspace{
		files:     NewFileSet(nil, models.PrimaryFile),
		ledger:    NewLedger(nil),
		onCapture: onCapture,
	}
	w.debounce = NewDebouncer(delay, w.captureDebounced)
	return w
}

// Hydrate replaces the workspace state wholesale from a stored conversation.
// Any pending capture for the previous conversation is dropped.
func (w *Workspace) Hydrate(conv *models.Conversation) {
	w.debounce.Stop()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conversationID = conv.ID
	w.files = NewFileSet(conv.FileMap(), conv.ActiveFile)
	w.ledger = NewLedger(conv.Versions)
	w.generating = false
	w.lastDesc = ""
}

// Reset drops all state, leaving no conversation hydrated.
func (w *Workspace) Reset() {
	w.debounce.Stop()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conversationID = ""
	w.files = NewFileSet(nil, models.PrimaryFile)
	w.ledger = NewLedger(nil)
	w.generating = false
	w.lastDesc = ""
}

// ConversationID returns the id of the hydrated conversation, or "".
func (w *Workspace) ConversationID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conversationID
}

// Files exposes the file set of the hydrated conversation.
func (w *Workspace) Files() *FileSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files
}

// SetGenerating marks the workspace as mid-generation. While set, primary
// writes do not arm the capture debouncer; the generation flow records its
// own snapshot when the result is complete.
func (w *Workspace) SetGenerating(generating bool) {
	w.mu.Lock()
	w.generating = generating
	w.mu.Unlock()
	if generating {
		w.debounce.Stop()
	}
}

// SetDescription records the label used for the next captured snapshot.
func (w *Workspace) SetDescription(desc string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastDesc = desc
}

// WriteFile updates a file's contents. Every primary write restarts the
// capture debouncer; suppression happens when the timer fires, where the
// generating guard and the unchanged-code skip decide whether a snapshot is
// recorded. Streamed chunk writes therefore keep the timer moving without
// ever committing a partial snapshot.
func (w *Workspace) WriteFile(name, content string) error {
	w.mu.Lock()
	files := w.files
	w.mu.Unlock()
	if err := files.Write(name, content); err != nil {
		return err
	}
	if name == models.PrimaryFile {
		w.debounce.Trigger()
	}
	return nil
}

// captureDebounced runs when the debouncer fires.
func (w *Workspace) captureDebounced() {
	w.Capture()
}

// Capture records a snapshot of the primary file immediately. Returns the
// new entry, or nil when the code is unchanged since the newest snapshot,
// no conversation is hydrated, or a generation is in flight.
func (w *Workspace) Capture() *models.Version {
	w.mu.Lock()
	desc := w.lastDesc
	w.mu.Unlock()
	return w.capture(desc, false)
}

// CaptureForGeneration records a snapshot right after a generation lands,
// bypassing the generating guard.
func (w *Workspace) CaptureForGeneration(description string) *models.Version {
	return w.capture(description, true)
}

func (w *Workspace) capture(description string, bypassGenerating bool) *models.Version {
	w.mu.Lock()
	if w.conversationID == "" || (w.generating && !bypassGenerating) {
		w.mu.Unlock()
		return nil
	}
	code, err := w.files.Read(models.PrimaryFile)
	if err != nil {
		w.mu.Unlock()
		return nil
	}
	v := w.ledger.Capture(code, description)
	if v == nil {
		w.mu.Unlock()
		return nil
	}
	id := w.conversationID
	entries := w.ledger.Entries()
	onCapture := w.onCapture
	w.mu.Unlock()
	if onCapture != nil {
		onCapture(id, entries)
	}
	return v
}

// Versions returns the snapshot history, newest first.
func (w *Workspace) Versions() []models.Version {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.Entries()
}

// Restore writes the code of a stored snapshot back into the primary file.
// The write arms the debouncer like any other edit, so a restore that sticks
// gets its own snapshot.
func (w *Workspace) Restore(id int64) (*models.Version, error) {
	w.mu.Lock()
	if w.conversationID == "" {
		w.mu.Unlock()
		return nil, apperr.NewInvalidRequest("no conversation selected")
	}
	v, err := w.ledger.Get(id)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.mu.Unlock()
	if err := w.WriteFile(models.PrimaryFile, v.Code); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVersion removes a snapshot from the ledger and persists the change.
func (w *Workspace) DeleteVersion(id int64) error {
	w.mu.Lock()
	if w.conversationID == "" {
		w.mu.Unlock()
		return apperr.NewInvalidRequest("no conversation selected")
	}
	if err := w.ledger.Delete(id); err != nil {
		w.mu.Unlock()
		return err
	}
	convID := w.conversationID
	entries := w.ledger.Entries()
	onCapture := w.onCapture
	w.mu.Unlock()
	if onCapture != nil {
		onCapture(convID, entries)
	}
	return nil
}
