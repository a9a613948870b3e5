package graph

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

var langTagPattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

// LiteralNode is an RDF literal. Its lexical form, datatype and language are
// read-only; build a new literal to change them.
type LiteralNode struct {
	lit rdf.Literal
}

// LiteralOption configures NewLiteral.
type LiteralOption func(*rdf.Literal)

// WithDatatype sets an explicit datatype IRI.
func WithDatatype(datatype string) LiteralOption {
	return func(l *rdf.Literal) { l.Datatype = rdf.IRI{Value: datatype} }
}

// WithLang sets a language tag.
func WithLang(lang string) LiteralOption {
	return func(l *rdf.Literal) { l.Lang = lang }
}

// NewLiteral creates a literal. Without options the datatype is xsd:string.
// A language tag cannot be combined with a datatype other than xsd:string or
// rdf:langString.
func NewLiteral(lex string, opts ...LiteralOption) (LiteralNode, error) {
	lit := rdf.Literal{Lexical: lex}
	for _, opt := range opts {
		opt(&lit)
	}
	return newLiteralNode(lit)
}

func newLiteralNode(lit rdf.Literal) (LiteralNode, error) {
	dt := lit.Datatype.Value
	if lit.Lang != "" {
		if dt != "" && dt != rdf.XSDString && dt != rdf.RDFLangString {
			return LiteralNode{}, fmt.Errorf("%w: language tag %q conflicts with datatype %s", rdf.ErrConstruction, lit.Lang, dt)
		}
		if !langTagPattern.MatchString(lit.Lang) {
			return LiteralNode{}, fmt.Errorf("%w: malformed language tag %q", rdf.ErrConstruction, lit.Lang)
		}
		return LiteralNode{lit: rdf.Literal{Lexical: lit.Lexical, Lang: lit.Lang}}, nil
	}
	switch dt {
	case "":
		dt = rdf.XSDString
	case rdf.RDFLangString:
		return LiteralNode{}, fmt.Errorf("%w: rdf:langString requires a language tag", rdf.ErrConstruction)
	default:
		if err := rdf.ValidateIRI(dt); err != nil {
			return LiteralNode{}, fmt.Errorf("%w: datatype: %v", rdf.ErrConstruction, err)
		}
	}
	return LiteralNode{lit: rdf.Literal{Lexical: lit.Lexical, Datatype: rdf.IRI{Value: dt}}}, nil
}

// Literal converts a Go primitive into its canonical literal: strings become
// xsd:string, booleans xsd:boolean, integral numbers xsd:integer and other
// numbers xsd:decimal.
func Literal(value any) (LiteralNode, error) {
	if node, ok := value.(LiteralNode); ok {
		return node, nil
	}
	lit, ok := canonicalLiteral(value)
	if !ok {
		return LiteralNode{}, fmt.Errorf("%w: no literal encoding for %T", rdf.ErrConstruction, value)
	}
	return LiteralNode{lit: lit}, nil
}

// LangString creates an rdf:langString literal.
func LangString(lex, lang string) (LiteralNode, error) {
	if lang == "" {
		return LiteralNode{}, fmt.Errorf("%w: language tag required", rdf.ErrConstruction)
	}
	return NewLiteral(lex, WithLang(lang))
}

// HTML creates an rdf:HTML literal.
func HTML(lex string) LiteralNode {
	return LiteralNode{lit: rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: rdf.RDFHTML}}}
}

// XML creates an rdf:XMLLiteral literal.
func XML(lex string) LiteralNode {
	return LiteralNode{lit: rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: rdf.RDFXMLLiteral}}}
}

// canonicalLiteral encodes a primitive. It reports false for anything else.
func canonicalLiteral(value any) (rdf.Literal, bool) {
	typed := func(lex, dt string) (rdf.Literal, bool) {
		return rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: dt}}, true
	}
	switch v := value.(type) {
	case string:
		return typed(v, rdf.XSDString)
	case bool:
		return typed(strconv.FormatBool(v), rdf.XSDBoolean)
	case int:
		return typed(strconv.FormatInt(int64(v), 10), rdf.XSDInteger)
	case int8:
		return typed(strconv.FormatInt(int64(v), 10), rdf.XSDInteger)
	case int16:
		return typed(strconv.FormatInt(int64(v), 10), rdf.XSDInteger)
	case int32:
		return typed(strconv.FormatInt(int64(v), 10), rdf.XSDInteger)
	case int64:
		return typed(strconv.FormatInt(v, 10), rdf.XSDInteger)
	case uint:
		return typed(strconv.FormatUint(uint64(v), 10), rdf.XSDInteger)
	case uint8:
		return typed(strconv.FormatUint(uint64(v), 10), rdf.XSDInteger)
	case uint16:
		return typed(strconv.FormatUint(uint64(v), 10), rdf.XSDInteger)
	case uint32:
		return typed(strconv.FormatUint(uint64(v), 10), rdf.XSDInteger)
	case uint64:
		return typed(strconv.FormatUint(v, 10), rdf.XSDInteger)
	case float32:
		return floatLiteral(float64(v))
	case float64:
		return floatLiteral(v)
	default:
		return rdf.Literal{}, false
	}
}

func floatLiteral(f float64) (rdf.Literal, bool) {
	switch {
	case math.IsNaN(f):
		return rdf.Literal{Lexical: "NaN", Datatype: rdf.IRI{Value: rdf.XSDDouble}}, true
	case math.IsInf(f, 1):
		return rdf.Literal{Lexical: "INF", Datatype: rdf.IRI{Value: rdf.XSDDouble}}, true
	case math.IsInf(f, -1):
		return rdf.Literal{Lexical: "-INF", Datatype: rdf.IRI{Value: rdf.XSDDouble}}, true
	case f == math.Trunc(f):
		return rdf.Literal{Lexical: strconv.FormatFloat(f, 'f', -1, 64), Datatype: rdf.IRI{Value: rdf.XSDInteger}}, true
	default:
		return rdf.Literal{Lexical: strconv.FormatFloat(f, 'f', -1, 64), Datatype: rdf.IRI{Value: rdf.XSDDecimal}}, true
	}
}

// Lex returns the lexical form.
func (l LiteralNode) Lex() string { return l.lit.Lexical }

// Datatype returns the datatype IRI; rdf:langString for language-tagged literals.
func (l LiteralNode) Datatype() string { return l.lit.EffectiveDatatype() }

// Lang returns the language tag or "".
func (l LiteralNode) Lang() string { return l.lit.Lang }

func (LiteralNode) IsNamed() bool   { return false }
func (LiteralNode) IsURI() bool     { return false }
func (LiteralNode) IsBlank() bool   { return false }
func (LiteralNode) IsLiteral() bool { return true }

// Term returns the underlying rdf.Literal.
func (l LiteralNode) Term() rdf.Term { return l.lit }

// String returns the lexical form.
func (l LiteralNode) String() string { return l.lit.Lexical }

// DisplayLabel returns the lexical form.
func (l LiteralNode) DisplayLabel() (string, error) { return l.lit.Lexical, nil }

// Equals compares with another literal by lexical form, datatype and
// language, or with a primitive by the primitive's canonical encoding.
func (l LiteralNode) Equals(other any) bool {
	switch o := other.(type) {
	case LiteralNode:
		return rdf.Equal(l.lit, o.lit)
	case *LiteralNode:
		return o != nil && rdf.Equal(l.lit, o.lit)
	case rdf.Literal:
		return rdf.Equal(l.lit, o)
	case Node, rdf.Term, nil:
		return false
	}
	lit, ok := canonicalLiteral(other)
	return ok && rdf.Equal(l.lit, lit)
}

// AsBoolean accepts exactly "true" and "1" (true), "false" and "0" (false).
func (l LiteralNode) AsBoolean() (bool, error) {
	switch l.lit.Lexical {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", rdf.ErrCast, l.lit.Lexical)
}

// AsNumber parses the lexical form as a float64.
func (l LiteralNode) AsNumber() (float64, error) {
	lex := strings.TrimSpace(l.lit.Lexical)
	switch lex {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", rdf.ErrCast, l.lit.Lexical)
	}
	return f, nil
}

// IsNumeric reports whether the datatype is an XSD numeric type.
func (l LiteralNode) IsNumeric() bool {
	return rdf.IsNumericDatatype(l.Datatype())
}

// Simplify returns a float64 for numeric literals, a bool for xsd:boolean
// and a string for xsd:string. Any other literal, including one whose
// lexical form is invalid for its datatype, is returned unchanged.
func (l LiteralNode) Simplify() any {
	switch {
	case l.IsNumeric():
		if f, err := l.AsNumber(); err == nil {
			return f
		}
	case l.Datatype() == rdf.XSDBoolean:
		if b, err := l.AsBoolean(); err == nil {
			return b
		}
	case l.Datatype() == rdf.XSDString:
		return l.lit.Lexical
	}
	return l
}

func (LiteralNode) isNode() {}
