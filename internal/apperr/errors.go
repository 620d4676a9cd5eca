package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of builder error.
type Code string

const (
	CodeInvalidRequest     Code = "INVALID_REQUEST"      // 400
	CodeNotFound           Code = "NOT_FOUND"            // 404
	CodeDuplicateName      Code = "DUPLICATE_NAME"       // 409
	CodeGenerationInFlight Code = "GENERATION_IN_FLIGHT" // 409
	CodeLastFile           Code = "LAST_FILE"            // 409
	CodeInvocationFailed   Code = "INVOCATION_FAILED"    // 502
	CodePersistenceFailed  Code = "PERSISTENCE_FAILED"   // 500
	CodeInternal           Code = "INTERNAL"             // 500
)

// Error carries a stable code and HTTP status alongside the message so the
// web layer can map failures without string matching.
type Error struct {
	Code    Code
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Status: 400, Message: msg}
}

// NewNotFound creates a 404 error for a missing conversation, file or version.
func NewNotFound(kind, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
	}
}

// NewDuplicateName creates a 409 error for file-name collisions.
func NewDuplicateName(name string) *Error {
	return &Error{
		Code:    CodeDuplicateName,
		Status:  409,
		Message: fmt.Sprintf("file %q already exists", name),
	}
}

// NewGenerationInFlight creates a 409 error for a conversation that already
// has a generation running.
func NewGenerationInFlight(conversationID string) *Error {
	return &Error{
		Code:    CodeGenerationInFlight,
		Status:  409,
		Message: fmt.Sprintf("a generation is already running for conversation %s", conversationID),
	}
}

// NewLastFile creates a 409 error for deleting the only remaining file.
func NewLastFile(name string) *Error {
	return &Error{
		Code:    CodeLastFile,
		Status:  409,
		Message: fmt.Sprintf("cannot delete %q: a project must keep at least one file", name),
	}
}

// NewInvocationFailed wraps a failed call to the external generation service.
// Recoverable: the caller may retry the same instruction.
func NewInvocationFailed(err error) *Error {
	msg := "generation service call failed"
	if err != nil {
		msg = fmt.Sprintf("generation service call failed: %v", err)
	}
	return &Error{Code: CodeInvocationFailed, Status: 502, Message: msg, cause: err}
}

// NewPersistenceFailed wraps a failed store write. The in-memory state may be
// ahead of the store until the caller retries.
func NewPersistenceFailed(err error) *Error {
	msg := "store write failed"
	if err != nil {
		msg = fmt.Sprintf("store write failed: %v", err)
	}
	return &Error{Code: CodePersistenceFailed, Status: 500, Message: msg, cause: err}
}

// NewInternal wraps an unexpected error.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Code: CodeInternal, Status: 500, Message: msg, cause: err}
}

// Is reports whether err is, or wraps, an *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// From extracts the *Error wrapped in err, or nil.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
