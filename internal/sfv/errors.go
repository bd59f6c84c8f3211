package sfv

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	// KindIO covers open, read and write failures on files and writers.
	KindIO Kind = iota + 1

	// KindFormat covers a manifest data line that cannot be parsed.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Parse failures. Match them with errors.Is.
var (
	ErrMissingFilePath = errors.New("missing file path")
	ErrMissingChecksum = errors.New("missing checksum")
	ErrInvalidChecksum = errors.New("invalid checksum")
	ErrTooLong         = errors.New("too many fields")
)

// Error is the single error type returned by record and manifest
// operations. Err is either an I/O error or one of the parse sentinels.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Line int
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%v] %s", e.Kind, e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
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

func ioError(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

func formatError(err error) *Error {
	return &Error{Kind: KindFormat, Op: "parse", Err: err}
}

// AsError extracts an *Error from err, or returns nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsIO(err error) bool {
	e := AsError(err)
	return e != nil && e.Kind == KindIO
}

func IsFormat(err error) bool {
	e := AsError(err)
	return e != nil && e.Kind == KindFormat
}
