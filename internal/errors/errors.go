package errors

import (
	stderrors "errors"
)

type ErrorType string

const (
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeMissingMessage      ErrorType = "MISSING_MESSAGE"
	ErrorTypeNothingToCommit     ErrorType = "NOTHING_TO_COMMIT"
	ErrorTypeNoIdentity          ErrorType = "NO_IDENTITY"
	ErrorTypeCommitNotFound      ErrorType = "COMMIT_NOT_FOUND"
	ErrorTypeMissingCommitID     ErrorType = "MISSING_COMMIT_ID"
	ErrorTypeUnrecognizedCommand ErrorType = "UNRECOGNIZED_COMMAND"
	ErrorTypeMissingFile         ErrorType = "MISSING_FILE"
	ErrorTypeValidation          ErrorType = "VALIDATION"
)

// Error is a condition the CLI reports to the user as a single line.
// Message is that line, verbatim.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Soft reports whether the condition is a no-op signal rather than a failure.
func (e *Error) Soft() bool {
	return e.Type == ErrorTypeNothingToCommit || e.Type == ErrorTypeNoIdentity
}

func NotFound(path string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: "Can't find '" + path + "'.",
		Details: path,
	}
}

func MissingMessage() *Error {
	return &Error{
		Type:    ErrorTypeMissingMessage,
		Message: "Message was not passed.",
	}
}

func NothingToCommit() *Error {
	return &Error{
		Type:    ErrorTypeNothingToCommit,
		Message: "Nothing to commit.",
	}
}

func NoIdentity() *Error {
	return &Error{
		Type:    ErrorTypeNoIdentity,
		Message: "Please, tell me who you are.",
	}
}

func CommitNotFound(id string) *Error {
	return &Error{
		Type:    ErrorTypeCommitNotFound,
		Message: "Commit does not exist.",
		Details: id,
	}
}

func MissingCommitID() *Error {
	return &Error{
		Type:    ErrorTypeMissingCommitID,
		Message: "Commit id was not passed.",
	}
}

func UnrecognizedCommand(name string) *Error {
	return &Error{
		Type:    ErrorTypeUnrecognizedCommand,
		Message: "'" + name + "' is not a SVCS command.",
		Details: name,
	}
}

// MissingFile is raised when a tracked file disappeared before it could be
// read for a commit.
func MissingFile(path string) *Error {
	return &Error{
		Type:    ErrorTypeMissingFile,
		Message: "Tracked file '" + path + "' no longer exists.",
		Details: path,
	}
}

func ValidationError(message string, details any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err wraps an *Error of type t.
func IsType(err error, t ErrorType) bool {
	e, ok := As(err)
	return ok && e.Type == t
}
