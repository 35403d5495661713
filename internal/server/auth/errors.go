package auth

import "fmt"

// ErrorCode identifies the outcome of a failed auth operation.
type ErrorCode string

const (
	CodeHashing            ErrorCode = "HASHING"
	CodeConfiguration      ErrorCode = "CONFIGURATION"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	CodeMalformedToken     ErrorCode = "MALFORMED_TOKEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeExpiredToken       ErrorCode = "EXPIRED_TOKEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// Sentinels for errors.Is matching. Matching compares codes only, so a
// wrapped *Error carrying an internal cause still matches its sentinel.
var (
	ErrHashing            = &Error{Code: CodeHashing, Message: "hashing failed"}
	ErrConfiguration      = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "username or email already taken"}
	ErrMissingCredentials = &Error{Code: CodeMissingCredentials, Message: "missing credentials"}
	ErrMalformedToken     = &Error{Code: CodeMalformedToken, Message: "malformed token"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Message: "invalid token"}
	ErrExpiredToken       = &Error{Code: CodeExpiredToken, Message: "expired token"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
)

// Error is the closed error type returned by the auth core.
type Error struct {
	Code     ErrorCode
	Message  string
	Internal error
}

// NewError creates a new auth error.
func NewError(code ErrorCode, message string, internal error) *Error {
	return &Error{Code: code, Message: message, Internal: internal}
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Unauthorized reports whether the error belongs to the 401 family.
func (e *Error) Unauthorized() bool {
	switch e.Code {
	case CodeMissingCredentials, CodeMalformedToken, CodeInvalidToken, CodeExpiredToken, CodeInvalidCredentials:
		return true
	}
	return false
}
