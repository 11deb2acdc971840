// Package diag defines the structured errors produced by the LQL pipeline.
// Every error carries the byte offset range of the offending substring so a
// UI can underline exactly what is wrong.
package diag

import (
	"fmt"
	"strings"
)

// Kind identifies which pipeline stage produced an error.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindValidation
)

// String returns the stage name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a structured query error tied to a byte range in the input text.
type Error struct {
	Kind    Kind
	Message string
	Start   int
	End     int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at %d..%d: %s", e.Kind, e.Start, e.End, e.Message)
}

// Lexf builds a lex error for the given byte range.
func Lexf(start, end int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindLex, Message: fmt.Sprintf(format, args...), Start: start, End: end}
}

// Parsef builds a parse error for the given byte range.
func Parsef(start, end int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...), Start: start, End: end}
}

// Validationf builds a validation error for the given byte range.
func Validationf(start, end int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Start: start, End: end}
}

// List is a non-empty collection of errors returned together, used by the
// validator which reports every problem in a query at once.
type List []*Error

func (l List) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(l))
	for _, e := range l {
		sb.WriteString("\n\t")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// AsList normalizes an error into a List. A nil error yields nil.
func AsList(err error) List {
	switch v := err.(type) {
	case nil:
		return nil
	case List:
		return v
	case *Error:
		return List{v}
	default:
		return List{{Kind: KindValidation, Message: err.Error()}}
	}
}
