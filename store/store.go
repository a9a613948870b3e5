// Package store is the graph engine behind graph.Session: named graphs on a
// pluggable Backend, prefixes, labels, superclass walking, property paths
// and a basic graph pattern SELECT.
package store

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// DefaultGraph is the graph used when none is configured.
const DefaultGraph = "urn:x-graph:default"

// DefaultURINamespace prefixes identities minted by NewURI.
const DefaultURINamespace = "urn:uuid:"

// Store implements graph.Engine and is safe for concurrent use. Which graph
// is active is tracked by each session; the store only counts open scopes.
type Store struct {
	backend      Backend
	prefixes     *PrefixMap
	defaultGraph string
	uriNamespace string
	logger       *slog.Logger
	scopes       atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithDefaultGraph sets the graph sessions start in.
func WithDefaultGraph(graph string) Option {
	return func(s *Store) { s.defaultGraph = graph }
}

// WithPrefixes adds prefixes to the standard ones.
func WithPrefixes(prefixes map[string]string) Option {
	return func(s *Store) {
		for p, ns := range prefixes {
			s.prefixes.Set(p, ns)
		}
	}
}

// WithURINamespace sets the namespace of identities minted by NewURI.
func WithURINamespace(ns string) Option {
	return func(s *Store) { s.uriNamespace = ns }
}

// New creates a store over backend and registers the default graph.
func New(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:      backend,
		prefixes:     NewPrefixMap(nil),
		defaultGraph: DefaultGraph,
		uriNamespace: DefaultURINamespace,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := rdf.ValidateIRI(s.defaultGraph); err != nil {
		return nil, fmt.Errorf("default graph: %w", err)
	}
	if err := backend.CreateGraph(s.defaultGraph); err != nil {
		return nil, rdf.WrapEngineError("create graph", err)
	}
	return s, nil
}

// NewMemory creates a store over a fresh MemoryBackend.
func NewMemory(opts ...Option) *Store {
	s, err := New(NewMemoryBackend(), opts...)
	if err != nil {
		// only an invalid default graph can fail here
		panic(err)
	}
	return s
}

// Prefixes exposes the prefix mapping.
func (s *Store) Prefixes() *PrefixMap { return s.prefixes }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// CreateGraph registers an empty named graph.
func (s *Store) CreateGraph(graph string) error {
	if err := rdf.ValidateIRI(graph); err != nil {
		return fmt.Errorf("%w: graph: %v", rdf.ErrArgument, err)
	}
	return rdf.WrapEngineError("create graph", s.backend.CreateGraph(graph))
}

func (s *Store) Add(graph string, t rdf.Triple) (err error) {
	defer observe("add", time.Now(), &err)
	if _, err = s.backend.Add(graph, t); err != nil {
		return rdf.WrapEngineError("add", err)
	}
	return nil
}

func (s *Store) Remove(graph string, subj, pred, obj rdf.Term) (err error) {
	defer observe("remove", time.Now(), &err)
	n, err := s.backend.Remove(graph, subj, pred, obj)
	if err != nil {
		return rdf.WrapEngineError("remove", err)
	}
	s.logger.Debug("removed triples", slog.String("graph", graph), slog.Int("count", n))
	return nil
}

func (s *Store) Contains(graph string, subj, pred, obj rdf.Term) (bool, error) {
	triples, err := s.Match(graph, subj, pred, obj)
	return len(triples) > 0, err
}

func (s *Store) Match(graph string, subj, pred, obj rdf.Term) (_ []rdf.Triple, err error) {
	defer observe("match", time.Now(), &err)
	triples, err := s.backend.Match(graph, subj, pred, obj)
	if err != nil {
		return nil, rdf.WrapEngineError("match", err)
	}
	return triples, nil
}

// Values resolves path from subject. A simple path is one predicate IRI;
// otherwise path is parsed as a SPARQL 1.1 property path.
func (s *Store) Values(graph string, subject rdf.Term, path string, simple bool) (_ []rdf.Term, err error) {
	defer observe("values", time.Now(), &err)
	if simple {
		triples, err := s.backend.Match(graph, subject, rdf.IRI{Value: path}, nil)
		if err != nil {
			return nil, rdf.WrapEngineError("values", err)
		}
		out := make([]rdf.Term, len(triples))
		for i, t := range triples {
			out[i] = t.O
		}
		return out, nil
	}
	expr, err := ParsePath(path, s.prefixes)
	if err != nil {
		return nil, err
	}
	return s.evalPath(graph, expr, subject)
}

// superclassAxioms hold in every graph.
var superclassAxioms = map[string][]string{
	rdf.SHNodeShape:     {rdf.SHShape},
	rdf.SHPropertyShape: {rdf.SHShape},
}

// WalkSuperclasses visits class and its transitive rdfs:subClassOf
// superclasses breadth-first, each once, until visit returns false.
func (s *Store) WalkSuperclasses(graph string, class rdf.Term, visit func(rdf.Term) bool) (err error) {
	defer observe("walk_superclasses", time.Now(), &err)
	if class == nil {
		return fmt.Errorf("%w: missing class", rdf.ErrArgument)
	}
	seen := map[string]struct{}{rdf.Key(class): {}}
	queue := []rdf.Term{class}
	subClassOf := rdf.IRI{Value: rdf.RDFSSubClassOf}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if !visit(current) {
			return nil
		}
		triples, err := s.backend.Match(graph, current, subClassOf, nil)
		if err != nil {
			return rdf.WrapEngineError("walk superclasses", err)
		}
		next := make([]rdf.Term, 0, len(triples)+1)
		for _, t := range triples {
			next = append(next, t.O)
		}
		if iri, ok := current.(rdf.IRI); ok {
			for _, super := range superclassAxioms[iri.Value] {
				next = append(next, rdf.IRI{Value: super})
			}
		}
		for _, n := range next {
			if n.Kind() == rdf.TermLiteral {
				continue
			}
			if _, ok := seen[rdf.Key(n)]; ok {
				continue
			}
			seen[rdf.Key(n)] = struct{}{}
			queue = append(queue, n)
		}
	}
	return nil
}

func (s *Store) DefaultGraph() string { return s.defaultGraph }

func (s *Store) Graphs() ([]string, error) {
	graphs, err := s.backend.Graphs()
	return graphs, rdf.WrapEngineError("graphs", err)
}

func (s *Store) HasGraph(graph string) (bool, error) {
	if graph == s.defaultGraph {
		return true, nil
	}
	graphs, err := s.Graphs()
	if err != nil {
		return false, err
	}
	for _, g := range graphs {
		if g == graph {
			return true, nil
		}
	}
	return false, nil
}

// EnterGraph records that a scope switched to graph.
func (s *Store) EnterGraph(graph string) error {
	ok, err := s.HasGraph(graph)
	if err != nil {
		return err
	}
	if !ok {
		return rdf.WrapEngineError("enter graph", fmt.Errorf("unknown graph %s", graph))
	}
	activeScopes.Inc()
	s.logger.Debug("graph scope opened", slog.String("graph", graph), slog.Int64("open", s.scopes.Add(1)))
	return nil
}

// ExitGraph records that a scope switched back to graph, the graph that was
// active before the scope was entered.
func (s *Store) ExitGraph(graph string) error {
	ok, err := s.HasGraph(graph)
	if err != nil {
		return err
	}
	if !ok {
		return rdf.WrapEngineError("exit graph", fmt.Errorf("cannot restore unknown graph %s", graph))
	}
	activeScopes.Dec()
	s.logger.Debug("graph scope closed", slog.String("restored", graph), slog.Int64("open", s.scopes.Add(-1)))
	return nil
}

// NewBlankNode mints a blank node with a random UUID label.
func (s *Store) NewBlankNode() rdf.BlankNode {
	return rdf.BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// NewURI mints an identity in the configured namespace. The class local
// name is included when the namespace is not a urn:uuid namespace.
func (s *Store) NewURI(graph, class string) (string, error) {
	id := uuid.NewString()
	if strings.HasPrefix(s.uriNamespace, "urn:uuid") {
		return s.uriNamespace + id, nil
	}
	_, local := rdf.SplitIRI(class)
	if local == "" {
		return s.uriNamespace + id, nil
	}
	return s.uriNamespace + local + "-" + id, nil
}

// labelPredicates are consulted in order by DisplayLabel.
var labelPredicates = []string{rdf.RDFSLabel, rdf.SKOSPrefLabel}

// DisplayLabel returns the first rdfs:label or skos:prefLabel of t,
// preferring untagged and English labels. Literals label themselves.
// The empty string means no label exists.
func (s *Store) DisplayLabel(graph string, t rdf.Term) (string, error) {
	if lit, ok := t.(rdf.Literal); ok {
		return lit.Lexical, nil
	}
	for _, p := range labelPredicates {
		triples, err := s.Match(graph, t, rdf.IRI{Value: p}, nil)
		if err != nil {
			return "", err
		}
		best, rank := "", 3
		for _, tr := range triples {
			lit, ok := tr.O.(rdf.Literal)
			if !ok {
				continue
			}
			r := 2
			switch {
			case lit.Lang == "":
				r = 0
			case strings.EqualFold(lit.Lang, "en") || strings.HasPrefix(strings.ToLower(lit.Lang), "en-"):
				r = 1
			}
			if r < rank {
				best, rank = lit.Lexical, r
			}
		}
		if rank < 3 {
			return best, nil
		}
	}
	return "", nil
}

func (s *Store) IsNumericDatatype(datatype string) bool { return rdf.IsNumericDatatype(datatype) }

func (s *Store) ExpandQName(qname string) (string, bool) { return s.prefixes.Expand(qname) }

func (s *Store) AbbreviateIRI(iri string) (string, bool) { return s.prefixes.Abbreviate(iri) }

// OpenScopes returns the number of graph scopes entered and not yet exited.
func (s *Store) OpenScopes() int64 { return s.scopes.Load() }
