package errors

import (
	"fmt"
)

// Code is the closed set of failure categories the bridge can report.
// The first block mirrors the script language's own exception hierarchy;
// the remainder are host-side conditions.
type Code int

const (
	None Code = iota
	// Construction reports that the engine heap could not be created.
	Construction
	// Generic is an engine-level operation failure with no more specific
	// category, e.g. a rejected property write.
	Generic
	Eval
	Range
	Syntax
	Type
	URI
	// NullRef reports that an object handle no longer resolves to a live
	// engine object.
	NullRef
	// Conversion reports that a host value could not be coerced into the
	// engine's value model, or a Value could not be narrowed to the
	// requested host type.
	Conversion
)

// Kind returns a short human-readable name for the code.
func (c Code) Kind() string {
	switch c {
	case None:
		return "None"
	case Construction:
		return "Construction"
	case Generic:
		return "Error"
	case Eval:
		return "EvalError"
	case Range:
		return "RangeError"
	case Syntax:
		return "SyntaxError"
	case Type:
		return "TypeError"
	case URI:
		return "URIError"
	case NullRef:
		return "NullReference"
	case Conversion:
		return "Conversion"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Error is the error value returned by every fallible bridge operation.
// The message is usually the diagnostic text extracted from the engine's
// own exception object (its "stack" property).
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Code == Generic {
		return "an unknown error occurred"
	}
	return fmt.Sprintf("%s (code %d)", e.Code.Kind(), int(e.Code))
}

// Kind returns the category name, e.g. "SyntaxError".
func (e *Error) Kind() string { return e.Code.Kind() }

// Message returns the message without any category prefix. Useful when the
// caller wants to format the error differently.
func (e *Error) Message() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error from a category and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the category from err, or None when err is nil and
// Generic when err is not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return None
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return Generic
}
