package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventChunk   EventType = "chunk"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	BuildChunk    = "events:build:chunk"
	BuildStatus   = "events:build:status"
	BuildDone     = "events:build:done"
	BuildError    = "events:build:error"
	DetectorAlert = "events:detector:alert"
)

// BuildEvent is the payload pushed to connected clients while a generation
// streams in or the detector reports a fault.
type BuildEvent struct {
	ID             string            `json:"id"`
	Type           EventType         `json:"type"`
	Message        string            `json:"message"`
	Timestamp      time.Time         `json:"timestamp"`
	ConversationID string            `json:"conversationId,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const conversationContextKey contextKey = "sitesmith/events/conversation"

// WithConversation returns a derived context annotated with the conversation
// id so emitters can automatically scope payloads.
func WithConversation(ctx context.Context, conversationID string) context.Context {
	if strings.TrimSpace(conversationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, conversationContextKey, conversationID)
}

// ConversationFromContext extracts the conversation id associated with ctx.
func ConversationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(conversationContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateBuildEvent(eventType EventType, message string) BuildEvent {
	return BuildEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info BuildEvent.
func NewInfo(message string) BuildEvent {
	return CreateBuildEvent(EventInfo, message)
}

// NewChunk creates a chunk BuildEvent carrying a slice of streamed code.
func NewChunk(message string) BuildEvent {
	return CreateBuildEvent(EventChunk, message)
}

// NewError creates an error BuildEvent.
func NewError(message string) BuildEvent {
	return CreateBuildEvent(EventError, message)
}

// NewSuccess creates a success BuildEvent.
func NewSuccess(message string) BuildEvent {
	return CreateBuildEvent(EventSuccess, message)
}
