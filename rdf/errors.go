package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeConstruction indicates a term was requested from insufficient or contradictory input.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION"
	// ErrCodeCast indicates a value could not be interpreted as the requested variant.
	ErrCodeCast ErrorCode = "CAST"
	// ErrCodeArgument indicates a required argument was missing or empty.
	ErrCodeArgument ErrorCode = "ARGUMENT"
	// ErrCodeImmutableState indicates an attempt to mutate read-only state.
	ErrCodeImmutableState ErrorCode = "IMMUTABLE_STATE"
	// ErrCodeEngine indicates a failure reported by the graph engine.
	ErrCodeEngine ErrorCode = "ENGINE"
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeUnknown is returned for errors outside the taxonomy.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrConstruction indicates a term was requested from insufficient or contradictory input.
	ErrConstruction = errors.New("rdf: cannot construct term")
	// ErrCast indicates a value could not be cast or coerced.
	ErrCast = errors.New("rdf: cannot cast value")
	// ErrArgument indicates a required argument was missing or empty.
	ErrArgument = errors.New("rdf: invalid argument")
	// ErrImmutableState indicates an attempt to assign read-only state.
	ErrImmutableState = errors.New("rdf: state is read-only")
	// ErrEngine is matched by every *EngineError.
	ErrEngine = errors.New("rdf: engine failure")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	// EOF is not an error condition
	if err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrConstruction):
		return ErrCodeConstruction
	case errors.Is(err, ErrCast):
		return ErrCodeCast
	case errors.Is(err, ErrArgument):
		return ErrCodeArgument
	case errors.Is(err, ErrImmutableState):
		return ErrCodeImmutableState
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		underlyingCode := Code(parseErr.Err)
		if underlyingCode != ErrCodeUnknown && underlyingCode != "" {
			return underlyingCode
		}
		return ErrCodeParseError
	}

	if errors.Is(err, context.Canceled) {
		return ErrCodeContextCanceled
	}

	if errors.Is(err, ErrEngine) {
		return ErrCodeEngine
	}

	return ErrCodeUnknown
}

// EngineError wraps a failure of the storage engine. The graph layer returns
// it unchanged so callers can tell store failures apart from invalid input.
type EngineError struct {
	Op  string // Engine operation, e.g. "match" or "add"
	Err error  // Underlying error
}

func (e *EngineError) Error() string {
	return "engine " + e.Op + ": " + e.Err.Error()
}

func (e *EngineError) Unwrap() error { return e.Err }

// Is makes every EngineError match ErrEngine.
func (e *EngineError) Is(target error) bool { return target == ErrEngine }

// WrapEngineError wraps err as an *EngineError unless it is nil or already one.
func WrapEngineError(op string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err
	}
	return &EngineError{Op: op, Err: err}
}

// ParseError locates a decoding failure in the input.
type ParseError struct {
	Format    string // "ntriples", "nquads" or "jsonld"
	Statement string // offending line, if known
	Line      int    // 1-based, 0 if unknown
	Column    int    // 1-based, 0 if unknown
	Err       error
}

func (e *ParseError) Error() string {
	pos := ""
	switch {
	case e.Line > 0 && e.Column > 0:
		pos = fmt.Sprintf(":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		pos = fmt.Sprintf(":%d", e.Line)
	}
	msg := e.Format + pos + ": " + e.Err.Error()
	if excerpt := e.excerpt(); excerpt != "" {
		msg += "\n  " + excerpt
	}
	return msg
}

// excerptWidth bounds the statement text shown in error messages.
const excerptWidth = 60

// excerpt returns a window of the statement around the column, with a caret
// line under the offending byte when the column is known.
func (e *ParseError) excerpt() string {
	stmt := e.Statement
	if stmt == "" {
		return ""
	}
	if e.Column <= 0 {
		if len(stmt) > excerptWidth {
			return stmt[:excerptWidth] + "..."
		}
		return stmt
	}
	col := min(e.Column-1, len(stmt))
	from := max(0, col-excerptWidth/2)
	to := min(len(stmt), from+excerptWidth)
	window, caret := stmt[from:to], col-from
	if from > 0 {
		window, caret = "..."+window, caret+3
	}
	if to < len(stmt) {
		window += "..."
	}
	return window + "\n  " + strings.Repeat(" ", caret) + "^"
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/statement/position context to a parse error.
func wrapParseError(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Line > 0 && line == 0 {
			line = parseErr.Line
		}
		if parseErr.Column > 0 && column == 0 {
			column = parseErr.Column
		}
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Err:       err,
	}
}
