package models

import (
	"time"

	"gorm.io/datatypes"
)

// PrimaryFile is the conventionally-named main output file every project
// keeps; chat-driven generation always targets it.
const PrimaryFile = "index.html"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. Exactly one system message exists per
// conversation and it is never rendered.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Version is an immutable snapshot of the primary file, captured by the
// debounced ledger watcher.
type Version struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
}

// Conversation is the top-level persisted entity: a chat thread bound to one
// generated project. Messages, files and versions are stored as JSON
// documents in text columns; the whole record is replaced field-wise on
// update, never merged.
type Conversation struct {
	ID         string                               `gorm:"primaryKey;size:36" json:"id"`
	Name       string                               `gorm:"size:255;not null" json:"name"`
	Messages   datatypes.JSONSlice[Message]         `gorm:"not null" json:"messages"`
	Files      datatypes.JSONType[map[string]string] `gorm:"not null" json:"files"`
	ActiveFile string                               `gorm:"size:255;not null" json:"activeFile"`
	Versions   datatypes.JSONSlice[Version]         `json:"versions"`
	CreatedAt  time.Time                            `json:"createdAt"`
	UpdatedAt  time.Time                            `json:"updatedAt"`
}

// FileMap returns a mutable copy of the file set.
func (c *Conversation) FileMap() map[string]string {
	src := c.Files.Data()
	out := make(map[string]string, len(src))
	for name, content := range src {
		out[name] = content
	}
	if len(out) == 0 {
		out[PrimaryFile] = ""
	}
	return out
}

// SetFiles replaces the file set column value.
func (c *Conversation) SetFiles(files map[string]string) {
	c.Files = datatypes.NewJSONType(files)
}
