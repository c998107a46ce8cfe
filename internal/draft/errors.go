package draft

import "fmt"

// ErrorType categorizes failures surfaced to the user at the dispatcher boundary.
// It implements error so callers can match with errors.Is(err, ErrInvalidColor).
type ErrorType string

const (
	ErrInvalidColor        ErrorType = "invalid_color"
	ErrInvalidURL          ErrorType = "invalid_url"
	ErrInvalidIndex        ErrorType = "invalid_index"
	ErrInvalidEnum         ErrorType = "invalid_enum"
	ErrInvalidInput        ErrorType = "invalid_input" // prompt syntax, e.g. missing "|"
	ErrIndexOutOfRange     ErrorType = "index_out_of_range"
	ErrFieldLimitExceeded  ErrorType = "field_limit_exceeded"
	ErrButtonLimitExceeded ErrorType = "button_limit_exceeded"
	ErrMalformedImport     ErrorType = "malformed_import"
	ErrSessionMissing      ErrorType = "session_missing"
	ErrPermissionDenied    ErrorType = "permission_denied"
	ErrGenerationFailed    ErrorType = "generation_failed"
	ErrPromptPending       ErrorType = "prompt_pending"
	ErrTimeout             ErrorType = "timeout"
)

func (t ErrorType) Error() string { return string(t) }

// Error is a typed failure with a user-facing message in PT-BR.
type Error struct {
	Type    ErrorType
	Message string
	Err     error // underlying cause, for logging
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches an Error against its ErrorType.
func (e *Error) Is(target error) bool {
	t, ok := target.(ErrorType)
	return ok && t == e.Type
}

func newError(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewError builds a typed error for callers outside this package.
func NewError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Err: cause}
}
