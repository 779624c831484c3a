package buildmap

import (
	"errors"
	"fmt"
)

// FormatErrorKind classifies a structural problem found while parsing.
type FormatErrorKind int

const (
	UnexpectedEnd FormatErrorKind = iota
	IndexOutOfRange
	InconsistentLoop
	InconsistentPortal
	InvalidHeights
	UnsupportedVersion
	TrailingBytes
	BadMagic
)

var kindNames = [...]string{
	UnexpectedEnd:      "unexpected end of data",
	IndexOutOfRange:    "index out of range",
	InconsistentLoop:   "inconsistent wall loop",
	InconsistentPortal: "inconsistent portal",
	InvalidHeights:     "floor above ceiling",
	UnsupportedVersion: "unsupported version",
	TrailingBytes:      "trailing bytes",
	BadMagic:           "bad archive magic",
}

func (k FormatErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("FormatErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinels for errors.Is. A *FormatError matches the sentinel of its Kind.
var (
	ErrUnexpectedEnd      = errors.New(UnexpectedEnd.String())
	ErrIndexOutOfRange    = errors.New(IndexOutOfRange.String())
	ErrInconsistentLoop   = errors.New(InconsistentLoop.String())
	ErrInconsistentPortal = errors.New(InconsistentPortal.String())
	ErrInvalidHeights     = errors.New(InvalidHeights.String())
	ErrUnsupportedVersion = errors.New(UnsupportedVersion.String())
	ErrTrailingBytes      = errors.New(TrailingBytes.String())
	ErrBadMagic           = errors.New(BadMagic.String())

	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("map io failure")
)

var kindSentinels = [...]error{
	UnexpectedEnd:      ErrUnexpectedEnd,
	IndexOutOfRange:    ErrIndexOutOfRange,
	InconsistentLoop:   ErrInconsistentLoop,
	InconsistentPortal: ErrInconsistentPortal,
	InvalidHeights:     ErrInvalidHeights,
	UnsupportedVersion: ErrUnsupportedVersion,
	TrailingBytes:      ErrTrailingBytes,
	BadMagic:           ErrBadMagic,
}

// FormatError is a located parse failure. Offset is the byte offset of the
// read or record that failed.
type FormatError struct {
	Kind   FormatErrorKind
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("map format: %v at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("map format: %v at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// Is reports whether target is the sentinel for e's kind.
func (e *FormatError) Is(target error) bool {
	if e.Kind < 0 || int(e.Kind) >= len(kindSentinels) {
		return false
	}
	return kindSentinels[e.Kind] == target
}

func formatErr(kind FormatErrorKind, offset int, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// IOError reports that the underlying byte source could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("map io: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
