// Package errors provides a structured error type with wrapping and data-position metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode defines the error kinds a conversion run can fail with
// Values are stable because they select the process exit code; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeInvalidArgument is for bad command line or config input
	ErrorCodeInvalidArgument

	// ErrorCodeMalformedSpec is for invalid or overlapping variable specifications
	ErrorCodeMalformedSpec

	// ErrorCodeSyntax is for syntax-file lines the parser cannot read
	ErrorCodeSyntax

	// ErrorCodeShortRecord is for records shorter than a variable's extent
	ErrorCodeShortRecord

	// ErrorCodeNonNumericField is for numeric fields that do not hold a signed integer
	ErrorCodeNonNumericField

	// ErrorCodeUnknownRecordType is for hierarchical records whose type has no layout
	ErrorCodeUnknownRecordType

	// ErrorCodeSourceIO is for raw data that cannot be opened, read, or decompressed
	ErrorCodeSourceIO

	// ErrorCodeSinkIO is for output files that cannot be created or written
	ErrorCodeSinkIO
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:           "unknown",
	ErrorCodeInvalidArgument:   "invalid_argument",
	ErrorCodeMalformedSpec:     "malformed_spec",
	ErrorCodeSyntax:            "syntax",
	ErrorCodeShortRecord:       "short_record",
	ErrorCodeNonNumericField:   "non_numeric_field",
	ErrorCodeUnknownRecordType: "unknown_record_type",
	ErrorCodeSourceIO:          "source_io",
	ErrorCodeSinkIO:            "sink_io",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "code_" + strconv.Itoa(int(c))
}

// Exit codes follow sysexits.h so shell pipelines can tell usage, data, and I/O failures apart
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
	ExitIOErr    = 74
)

// ExitCodeOf turns an ErrorCode into a process exit code
func ExitCodeOf(c ErrorCode) int {
	switch c {
	case ErrorCodeInvalidArgument:
		return ExitUsage
	case ErrorCodeMalformedSpec, ErrorCodeSyntax, ErrorCodeShortRecord,
		ErrorCodeNonNumericField, ErrorCodeUnknownRecordType:
		return ExitDataErr
	case ErrorCodeSourceIO:
		return ExitNoInput
	case ErrorCodeSinkIO:
		return ExitIOErr
	default:
		return ExitSoftware
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human facing; code is machine facing
// line, variable and raw locate the failure inside the data or syntax file
// orig is the wrapped cause
type Error struct {
	orig     error
	msg      string
	code     ErrorCode
	op       string
	line     int
	variable string
	raw      string
	hasRaw   bool
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.line > 0 {
		b.WriteString("line ")
		b.WriteString(strconv.Itoa(e.line))
		b.WriteString(": ")
	}
	if e.variable != "" {
		b.WriteString(e.variable)
		b.WriteString(": ")
	}
	b.WriteString(e.msg)
	if e.hasRaw {
		b.WriteString(" (raw ")
		b.WriteString(strconv.Quote(e.raw))
		b.WriteString(")")
	}
	if e.orig != nil {
		b.WriteString(": ")
		b.WriteString(e.orig.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the message without position context
func (e *Error) Message() string { return e.msg }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Line returns the 1-based record or syntax line, 0 when unknown
func (e *Error) Line() int { return e.line }

// Variable returns the offending variable name, if any
func (e *Error) Variable() string { return e.variable }

// Raw returns the offending raw text and whether one was recorded
func (e *Error) Raw() (string, bool) { return e.raw, e.hasRaw }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the mapped process exit code for any error; nil maps to ExitOK
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitCodeOf(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithOp attaches an operation label to an *Error. If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithLine attaches a 1-based line number to an *Error. If err isn't *Error, returns err unchanged
func WithLine(err error, line int) error {
	if e, ok := As(err); ok {
		c := *e
		c.line = line
		return &c
	}
	return err
}

// WithVariable attaches a variable name to an *Error. If err isn't *Error, returns err unchanged
func WithVariable(err error, name string) error {
	if e, ok := As(err); ok {
		c := *e
		c.variable = name
		return &c
	}
	return err
}

// WithRaw attaches the offending raw text to an *Error. If err isn't *Error, returns err unchanged
func WithRaw(err error, raw string) error {
	if e, ok := As(err); ok {
		c := *e
		c.raw = raw
		c.hasRaw = true
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// MalformedSpecf returns a malformed specification error
func MalformedSpecf(format string, a ...any) error { return Newf(ErrorCodeMalformedSpec, format, a...) }

// Syntaxf returns a syntax-file error
func Syntaxf(format string, a ...any) error { return Newf(ErrorCodeSyntax, format, a...) }

// ShortRecordf returns a short record error
func ShortRecordf(format string, a ...any) error { return Newf(ErrorCodeShortRecord, format, a...) }

// NonNumericf returns a non-numeric field error
func NonNumericf(format string, a ...any) error { return Newf(ErrorCodeNonNumericField, format, a...) }

// UnknownRecordTypef returns an unknown record type error
func UnknownRecordTypef(format string, a ...any) error {
	return Newf(ErrorCodeUnknownRecordType, format, a...)
}

// SourceIO wraps a raw data read failure
func SourceIO(orig error, msg string) error { return Wrap(orig, ErrorCodeSourceIO, msg) }

// SinkIO wraps an output write failure
func SinkIO(orig error, msg string) error { return Wrap(orig, ErrorCodeSinkIO, msg) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
