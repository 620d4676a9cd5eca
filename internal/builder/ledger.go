package builder

import (
	"strconv"
	"time"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
)

// LedgerCap bounds how many snapshots a conversation keeps. Older entries
// are evicted first.
const LedgerCap = 20

// Ledger is the bounded history of code snapshots for one conversation,
// newest first. Not safe for concurrent use; the owning Workspace holds
// the lock.
type Ledger struct {
	entries []models.Version
	nextID  int64
}

// NewLedger restores a ledger from stored entries. The id counter is seeded
// past both the wall clock and the highest restored id so new entries stay
// unique across restarts.
func NewLedger(entries []models.Version) *Ledger {
	l := &Ledger{nextID: time.Now().UnixMilli()}
	l.entries = make([]models.Version, len(entries))
	copy(l.entries, entries)
	for _, v := range l.entries {
		if v.ID >= l.nextID {
			l.nextID = v.ID + 1
		}
	}
	return l
}

// Capture appends a snapshot unless the code matches the newest entry.
// Returns the recorded version, or nil when the capture was skipped.
func (l *Ledger) Capture(code, description string) *models.Version {
	if len(l.entries) > 0 && l.entries[0].Code == code {
		return nil
	}
	v := models.Version{
		ID:          l.nextID,
		Timestamp:   time.Now(),
		Code:        code,
		Description: description,
	}
	l.nextID++
	l.entries = append([]models.Version{v}, l.entries...)
	if len(l.entries) > LedgerCap {
		l.entries = l.entries[:LedgerCap]
	}
	return &v
}

// Get returns the snapshot with the given id.
func (l *Ledger) Get(id int64) (*models.Version, error) {
	for i := range l.entries {
		if l.entries[i].ID == id {
			v := l.entries[i]
			return &v, nil
		}
	}
	return nil, apperr.NewNotFound("version", strconv.FormatInt(id, 10))
}

// Delete removes the snapshot with the given id.
func (l *Ledger) Delete(id int64) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return apperr.NewNotFound("version", strconv.FormatInt(id, 10))
}

// Entries returns a copy of the history, newest first.
func (l *Ledger) Entries() []models.Version {
	out := make([]models.Version, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many snapshots are held.
func (l *Ledger) Len() int {
	return len(l.entries)
}
