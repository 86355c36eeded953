package assess

import (
	"errors"
	"strings"
)

// Error is the licenseassess error domain type.
//
// Errors coming from pipeline stages should be able to be inspected as
// ([errors.As]) an *Error at some point in the error chain.
//
// Implementers of pipeline stages should create an Error at the system
// boundary (e.g. when reading a file or parsing configuration) and
// intermediate layers should not wrap in another Error except to add additional
// [ErrorKind] information. That is to say, use [fmt.Errorf] with a "%w" verb in
// preference to creating a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

// Assert this implements all the cool features.
var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrConfig,
		ErrIO,
		ErrArchive,
		ErrSecurity,
		ErrInvariant:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Op == "" && e.Message == "" {
		b.Reset()
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is].
//
// It compares the error kind. Callers should compare against a declared
// [ErrorKind] over a specific error.
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind represents classes of errors to be checked against.
//
// If a stage is unsure which kind to use, ErrIO is the usual default for a
// per-file problem; ErrInvariant should not be used lightly, since it aborts
// the whole pipeline.
type ErrorKind string

// Defined error kinds, corresponding to the error taxonomy: configuration
// problems are fatal before the pipeline starts, per-file IO problems are
// confined to the worker that hit them, archive problems fall back to
// treating the archive as an opaque file, security problems abort only the
// offending archive, and invariant violations abort the whole run.
var (
	ErrConfig    = ErrorKind("config")    // missing or malformed configuration
	ErrIO        = ErrorKind("io")        // per-file read/write failure
	ErrArchive   = ErrorKind("archive")   // malformed archive
	ErrSecurity  = ErrorKind("security")  // path traversal or similar inside an archive
	ErrInvariant = ErrorKind("invariant") // contract violation, aborts the pipeline
)

// Error implements error.
func (e ErrorKind) Error() string {
	return string(e)
}
