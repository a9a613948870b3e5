package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ntDecoder struct {
	reader  *bufio.Reader
	format  Format
	maxLine int
	line    int
	err     error
}

func newNTDecoder(r io.Reader, format Format, opts DecodeOptions) *ntDecoder {
	opts = normalizeDecodeOptions(opts)
	return &ntDecoder{reader: bufio.NewReader(r), format: format, maxLine: opts.MaxLineBytes}
}

// Next returns the next statement or io.EOF.
func (d *ntDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			if err != io.EOF {
				d.err = err
			}
			return Quad{}, err
		}
		d.line++
		if d.maxLine > 0 && len(line) > d.maxLine {
			d.err = wrapParseError(string(d.format), "", d.line, 0, ErrLineTooLong)
			return Quad{}, d.err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		quad, err := parseNTLine(trimmed, d.format)
		if err != nil {
			column := 0
			var cerr *cursorError
			if ok := asCursorError(err, &cerr); ok {
				column = cerr.pos + 1
			}
			d.err = wrapParseError(string(d.format), trimmed, d.line, column, err)
			return Quad{}, d.err
		}
		return quad, nil
	}
}

// Close releases decoder resources.
func (d *ntDecoder) Close() error { return nil }

func (d *ntDecoder) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func parseNTLine(line string, format Format) (Quad, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if format != FormatNQuads {
			return Quad{}, cursor.errorf("graph term not allowed in N-Triples")
		}
		graph, err = cursor.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
	}
	if !cursor.consume('.') {
		return Quad{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Quad{}, cursor.errorf("unexpected content after '.'")
	}
	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

type ntCursor struct {
	input string
	pos   int
}

type cursorError struct {
	pos int
	msg string
}

func (e *cursorError) Error() string { return e.msg }

func asCursorError(err error, target **cursorError) bool {
	cerr, ok := err.(*cursorError)
	if ok {
		*target = cerr
	}
	return ok
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], BlankNodePrefix):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	c.skipWS()
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var builder strings.Builder
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		if c.input[c.pos] == '\\' {
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return IRI{}, err
			}
			builder.WriteRune(r)
			continue
		}
		builder.WriteByte(c.input[c.pos])
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	c.pos++
	value := builder.String()
	if value == "" {
		return IRI{}, c.errorf("empty IRI")
	}
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += len(BlankNodePrefix)
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' belongs to the statement, not the label.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++ // opening quote
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch != '\\' {
			builder.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Literal{}, c.errorf("unterminated escape")
		}
		switch next := c.input[c.pos+1]; next {
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case 'b':
			builder.WriteByte('\b')
		case 'f':
			builder.WriteByte('\f')
		case '"', '\'', '\\':
			builder.WriteByte(next)
		case 'u', 'U':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return Literal{}, err
			}
			builder.WriteRune(r)
			continue
		default:
			return Literal{}, c.errorf("invalid escape \\%c", next)
		}
		c.pos += 2
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("language tag missing")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

// parseUnicodeEscape decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUnicodeEscape() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	code, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, c.errorf("invalid unicode escape")
	}
	c.pos = start + width
	return rune(code), nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return &cursorError{pos: c.pos, msg: fmt.Sprintf(format, args...)}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newNTEncoder(w io.Writer, format Format) *ntEncoder {
	return &ntEncoder{writer: bufio.NewWriter(w), format: format}
}

// Write emits one statement line. The graph name is dropped for N-Triples.
func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return fmt.Errorf("%s: missing statement fields", e.format)
	}
	line := renderTerm(q.S) + " " + renderIRI(q.P) + " " + renderTerm(q.O)
	if e.format == FormatNQuads && q.G != nil {
		line += " " + renderTerm(q.G)
	}
	line += " .\n"
	if _, err := e.writer.WriteString(line); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Flush writes buffered output.
func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

// Close flushes the encoder.
func (e *ntEncoder) Close() error {
	return e.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + iri.Value + ">"
}

// FormatTerm renders a term in N-Triples syntax, which is also valid SPARQL
// term syntax for IRIs and literals. A nil term renders as "".
func FormatTerm(term Term) string { return renderTerm(term) }

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		lexical := escapeLiteral(value.Lexical)
		if value.Lang != "" {
			return lexical + "@" + value.Lang
		}
		if value.Datatype.Value != "" && value.Datatype.Value != XSDString {
			return lexical + "^^" + renderIRI(value.Datatype)
		}
		return lexical
	default:
		return ""
	}
}

func escapeLiteral(lexical string) string {
	var builder strings.Builder
	builder.Grow(len(lexical) + 2)
	builder.WriteByte('"')
	for _, r := range lexical {
		switch r {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteRune(r)
		}
	}
	builder.WriteByte('"')
	return builder.String()
}
