package lql

import (
	"fmt"
	"strings"
)

// ErrorKind identifies which pipeline stage rejected the query.
type ErrorKind int

const (
	// KindLex marks a malformed token; lexing stops at the first one.
	KindLex ErrorKind = iota
	// KindParse marks malformed structure; parsing stops at the first one.
	KindParse
	// KindValidation marks a semantic mismatch; all validation errors in
	// a query are returned together.
	KindValidation
)

// String returns the stage name for the kind.
func (k ErrorKind) String() string {
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

// Error is a structured query error. Start and End are byte offsets into
// the original query text, suitable for a UI to underline the exact
// substring at fault.
type Error struct {
	Kind    ErrorKind
	Message string
	Start   int
	End     int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at %d..%d: %s", e.Kind, e.Start, e.End, e.Message)
}

// Errors is the non-empty error list returned by Compile and Validate.
type Errors []*Error

func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(es))
	for _, e := range es {
		sb.WriteString("\n\t")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err converts the list to a plain error, nil when the list is empty.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
