package types

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	ErrorKindNotFound               ErrorKind = "not found"
	ErrorKindMissingBuildEntry      ErrorKind = "missing build entry"
	ErrorKindMissingManifest        ErrorKind = "missing manifest"
	ErrorKindInvalidExtensionConfig ErrorKind = "invalid extension config"
	ErrorKindBuildFailed            ErrorKind = "build failed"
	ErrorKindCancelled              ErrorKind = "cancelled"
	ErrorKindInstallFailed          ErrorKind = "install failed"
)

// Error is a pipeline failure. Extension is empty for failures that are
// not attributable to a single extension.
type Error struct {
	Kind      ErrorKind
	Extension string
	Err       error
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound               = &Error{Kind: ErrorKindNotFound}
	ErrMissingBuildEntry      = &Error{Kind: ErrorKindMissingBuildEntry}
	ErrMissingManifest        = &Error{Kind: ErrorKindMissingManifest}
	ErrInvalidExtensionConfig = &Error{Kind: ErrorKindInvalidExtensionConfig}
	ErrBuildFailed            = &Error{Kind: ErrorKindBuildFailed}
	ErrCancelled              = &Error{Kind: ErrorKindCancelled}
	ErrInstallFailed          = &Error{Kind: ErrorKindInstallFailed}
)

func NewError(kind ErrorKind, extension string, err error) *Error {
	return &Error{Kind: kind, Extension: extension, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Extension != "" {
		fmt.Fprintf(&b, " (extension %s)", e.Extension)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels above work
// with errors.Is regardless of extension or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
