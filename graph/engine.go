package graph

import "github.com/geoknoesis/rdf-graph/rdf"

// TripleSource reads and writes triples of one named graph.
// Nil terms act as wildcards in Remove, Contains and Match.
type TripleSource interface {
	Add(graph string, t rdf.Triple) error
	Remove(graph string, s, p, o rdf.Term) error
	Contains(graph string, s, p, o rdf.Term) (bool, error)
	Match(graph string, s, p, o rdf.Term) ([]rdf.Triple, error)
}

// QueryEngine evaluates queries and property paths against a named graph.
type QueryEngine interface {
	// Select runs a SELECT query with optional pre-bound variables.
	Select(graph, query string, bindings map[string]rdf.Term) (*rdf.ResultTable, error)
	// Values resolves a property path from subject. When simple is true, path
	// is a single predicate IRI; otherwise it is a property path expression.
	Values(graph string, subject rdf.Term, path string, simple bool) ([]rdf.Term, error)
	// WalkSuperclasses visits class and all of its transitive superclasses
	// once each, until visit returns false.
	WalkSuperclasses(graph string, class rdf.Term, visit func(rdf.Term) bool) error
}

// GraphSwitcher tracks which named graph the engine treats as active.
type GraphSwitcher interface {
	DefaultGraph() string
	HasGraph(graph string) (bool, error)
	EnterGraph(graph string) error
	ExitGraph(graph string) error
}

// Vocabulary provides naming services: identities, prefixes and labels.
type Vocabulary interface {
	NewBlankNode() rdf.BlankNode
	NewURI(graph, class string) (string, error)
	DisplayLabel(graph string, t rdf.Term) (string, error)
	IsNumericDatatype(datatype string) bool
	ExpandQName(qname string) (string, bool)
	AbbreviateIRI(iri string) (string, bool)
}

// Engine is everything a Session needs from the underlying graph store.
type Engine interface {
	TripleSource
	QueryEngine
	GraphSwitcher
	Vocabulary
	Graphs() ([]string, error)
}
