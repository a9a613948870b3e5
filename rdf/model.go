package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
// This is the engine-native representation; callers normally work with the
// typed nodes of the graph package instead.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return BlankNodePrefix + b.ID }

// BlankNodePrefix marks blank node identities so they cannot be confused with IRIs.
const BlankNodePrefix = "_:"

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// EffectiveDatatype returns the datatype IRI the literal carries under RDF 1.1:
// rdf:langString for language-tagged literals, xsd:string when none was given.
func (l Literal) EffectiveDatatype() string {
	if l.Lang != "" {
		return RDFLangString
	}
	if l.Datatype.Value == "" {
		return XSDString
	}
	return l.Datatype.Value
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// String renders the triple in N-Triples syntax without the trailing dot.
func (t Triple) String() string {
	return renderTerm(t.S) + " " + renderIRI(t.P) + " " + renderTerm(t.O)
}

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil
}

// ToQuadInGraph converts a triple to a quad in a named graph.
func (t Triple) ToQuadInGraph(graph Term) Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: graph}
}

// Equal reports whether two terms denote the same RDF term.
// Literals compare by lexical form, effective datatype and language tag;
// language tags are case-insensitive.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case IRI:
		y, ok := b.(IRI)
		return ok && x.Value == y.Value
	case BlankNode:
		y, ok := b.(BlankNode)
		return ok && x.ID == y.ID
	case Literal:
		y, ok := b.(Literal)
		return ok && x.Lexical == y.Lexical && strings.EqualFold(x.Lang, y.Lang) && x.EffectiveDatatype() == y.EffectiveDatatype()
	default:
		return false
	}
}

// Key returns a string that uniquely identifies a term, suitable for map keys
// and storage indexes.
func Key(t Term) string {
	switch v := t.(type) {
	case IRI:
		return "<" + v.Value + ">"
	case BlankNode:
		return v.String()
	case Literal:
		if v.Lang != "" {
			return fmt.Sprintf("%q@%s", v.Lexical, strings.ToLower(v.Lang))
		}
		return fmt.Sprintf("%q^^<%s>", v.Lexical, v.EffectiveDatatype())
	default:
		return ""
	}
}
