package graph

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Session is the per-request entry point: it owns a GraphContext and turns
// engine values into typed nodes. A Session must not be used from more than
// one goroutine; create one per request over a shared Engine.
type Session struct {
	engine Engine
	graphs *GraphContext
	caster Caster
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger  *slog.Logger
	initial string
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = logger }
}

// WithInitialGraph overrides the engine's default graph as the starting active graph.
func WithInitialGraph(graph string) Option {
	return func(o *sessionOptions) { o.initial = graph }
}

// NewSession creates a session whose active graph starts as the engine default.
func NewSession(engine Engine, opts ...Option) *Session {
	options := sessionOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.initial == "" {
		options.initial = engine.DefaultGraph()
	}
	s := &Session{engine: engine, logger: options.logger}
	s.graphs = NewGraphContext(options.initial, engine, options.logger)
	s.caster = NewCaster(s)
	return s
}

// Caster returns the session's value caster.
func (s *Session) Caster() Caster { return s.caster }

// ActiveGraph returns the graph targeted by operations of this session.
func (s *Session) ActiveGraph() string { return s.graphs.Active() }

// SetActiveGraph always fails: the active graph only changes through WithActiveGraph.
func (s *Session) SetActiveGraph(string) error {
	return fmt.Errorf("%w: the active graph cannot be assigned, use WithActiveGraph", rdf.ErrImmutableState)
}

// WithActiveGraph runs fn with graph as the active graph and restores the
// previous one afterwards. See GraphContext.With.
func (s *Session) WithActiveGraph(graph string, fn func() error) error {
	return s.graphs.With(graph, fn)
}

// InGraph is WithActiveGraph for callbacks that produce a value.
func InGraph[T any](s *Session, graph string, fn func() (T, error)) (T, error) {
	var result T
	err := s.graphs.With(graph, func() error {
		var err error
		result, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// LabelOf resolves a display label in the active graph. It implements Labeler.
func (s *Session) LabelOf(t rdf.Term) (string, error) {
	return s.engine.DisplayLabel(s.graphs.Active(), t)
}

// Graphs lists the named graphs known to the engine.
func (s *Session) Graphs() ([]string, error) { return s.engine.Graphs() }

// HasGraph reports whether the engine knows graph.
func (s *Session) HasGraph(graph string) (bool, error) {
	if graph == "" {
		return false, nil
	}
	return s.engine.HasGraph(graph)
}

// BlankNode mints a fresh blank node.
func (s *Session) BlankNode() NamedNode {
	return NamedNode{term: s.engine.NewBlankNode(), labels: s}
}

// NamedNode converts a URI string, a qname Ref, an engine IRI/blank node or
// an existing NamedNode.
func (s *Session) NamedNode(value any) (NamedNode, error) {
	if str, ok := value.(string); ok {
		value = Ref{URI: str}
	}
	node, err := s.Node(value)
	if err != nil {
		return NamedNode{}, err
	}
	named, ok := node.(NamedNode)
	if !ok {
		return NamedNode{}, fmt.Errorf("%w: %v is not a named node", rdf.ErrConstruction, value)
	}
	return named, nil
}

// Node converts a value into a node. Accepted inputs are nodes, engine
// terms, primitives (as canonical literals), Ref values and decoded JSON
// objects with uri, qname, lex, datatype or lang keys. nil yields nil.
func (s *Session) Node(value any) (Node, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case NamedNode:
		if v.term == nil {
			return nil, fmt.Errorf("%w: zero named node", rdf.ErrConstruction)
		}
		if v.labels == nil {
			v.labels = s
		}
		return v, nil
	case LiteralNode:
		return v, nil
	case rdf.Term:
		node, err := s.caster.castTerm(v, VariantNatural)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rdf.ErrConstruction, err)
		}
		return node, nil
	case Ref:
		return s.fromRef(v)
	case *Ref:
		if v == nil {
			return nil, nil
		}
		return s.fromRef(*v)
	case map[string]any:
		ref, err := refFromMap(v)
		if err != nil {
			return nil, err
		}
		return s.fromRef(ref)
	default:
		return Literal(value)
	}
}

func (s *Session) fromRef(ref Ref) (Node, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if ref.Lex != nil {
		var opts []LiteralOption
		if ref.Datatype != "" {
			dt, err := s.expandIdentity(ref.Datatype)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithDatatype(dt))
		}
		if ref.Lang != "" {
			opts = append(opts, WithLang(ref.Lang))
		}
		return NewLiteral(*ref.Lex, opts...)
	}
	uri := ref.URI
	if ref.QName != "" {
		expanded, ok := s.engine.ExpandQName(ref.QName)
		if !ok {
			return nil, fmt.Errorf("%w: unknown prefix in qname %q", rdf.ErrConstruction, ref.QName)
		}
		uri = expanded
	}
	node, err := NewNamedNode(uri)
	if err != nil {
		return nil, err
	}
	node.labels = s
	return node, nil
}

// expandIdentity accepts a full URI or a qname with a known prefix.
func (s *Session) expandIdentity(value string) (string, error) {
	if expanded, ok := s.engine.ExpandQName(value); ok && !strings.Contains(value, "://") {
		return expanded, nil
	}
	if err := rdf.ValidateIRI(value); err != nil {
		return "", fmt.Errorf("%w: %v", rdf.ErrConstruction, err)
	}
	return value, nil
}

// URI expands a qname. It returns the input unchanged when no prefix matches.
func (s *Session) URI(qname string) string {
	if expanded, ok := s.engine.ExpandQName(qname); ok {
		return expanded
	}
	return qname
}

// QName abbreviates a URI with the known prefixes, reporting false if none fits.
func (s *Session) QName(uri string) (string, bool) {
	return s.engine.AbbreviateIRI(uri)
}

// LocalName returns the part of uri after the last '#', '/' or ':'.
func (s *Session) LocalName(uri string) string {
	_, local := rdf.SplitIRI(uri)
	return local
}

// NameSpace returns the part of uri up to and including the last '#', '/' or ':'.
func (s *Session) NameSpace(uri string) string {
	ns, _ := rdf.SplitIRI(uri)
	return ns
}

// NewURI asks the engine's URI policy for an identity for a new instance of class.
func (s *Session) NewURI(class NamedNode) (string, error) {
	if class.term == nil {
		return "", fmt.Errorf("%w: missing class", rdf.ErrArgument)
	}
	return s.engine.NewURI(s.graphs.Active(), class.URI())
}

// subjectTerm converts a subject argument. Strings are URIs.
func (s *Session) subjectTerm(value any, wildcard bool) (rdf.Term, error) {
	if value == nil {
		if wildcard {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: missing subject", rdf.ErrArgument)
	}
	node, err := s.NamedNode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %v", rdf.ErrArgument, err)
	}
	return node.term, nil
}

// predicateTerm converts a predicate argument. Strings are URIs; blank nodes are rejected.
func (s *Session) predicateTerm(value any, wildcard bool) (rdf.Term, error) {
	if value == nil {
		if wildcard {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: missing predicate", rdf.ErrArgument)
	}
	node, err := s.NamedNode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: predicate: %v", rdf.ErrArgument, err)
	}
	if !node.IsURI() {
		return nil, fmt.Errorf("%w: predicate must be a URI", rdf.ErrArgument)
	}
	return node.term, nil
}

// objectTerm converts an object argument. Strings are xsd:string literals.
func (s *Session) objectTerm(value any, wildcard bool) (rdf.Term, error) {
	if value == nil {
		if wildcard {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: missing object", rdf.ErrArgument)
	}
	node, err := s.Node(value)
	if err != nil {
		return nil, fmt.Errorf("%w: object: %v", rdf.ErrArgument, err)
	}
	return node.Term(), nil
}

// Add asserts (subject, predicate, object) in the active graph.
func (s *Session) Add(subject, predicate, object any) error {
	st, err := s.subjectTerm(subject, false)
	if err != nil {
		return err
	}
	pt, err := s.predicateTerm(predicate, false)
	if err != nil {
		return err
	}
	ot, err := s.objectTerm(object, false)
	if err != nil {
		return err
	}
	return s.engine.Add(s.graphs.Active(), rdf.Triple{S: st, P: pt.(rdf.IRI), O: ot})
}

// Remove deletes every matching triple from the active graph; nil is a wildcard.
func (s *Session) Remove(subject, predicate, object any) error {
	st, pt, ot, err := s.pattern(subject, predicate, object)
	if err != nil {
		return err
	}
	return s.engine.Remove(s.graphs.Active(), st, pt, ot)
}

// Contains reports whether any triple matches; nil is a wildcard.
func (s *Session) Contains(subject, predicate, object any) (bool, error) {
	st, pt, ot, err := s.pattern(subject, predicate, object)
	if err != nil {
		return false, err
	}
	return s.engine.Contains(s.graphs.Active(), st, pt, ot)
}

// Triple is a statement with typed nodes.
type Triple struct {
	Subject   NamedNode
	Predicate NamedNode
	Object    Node
}

// Triples returns all asserted triples matching the pattern; nil is a wildcard.
func (s *Session) Triples(subject, predicate, object any) ([]Triple, error) {
	st, pt, ot, err := s.pattern(subject, predicate, object)
	if err != nil {
		return nil, err
	}
	raw, err := s.engine.Match(s.graphs.Active(), st, pt, ot)
	if err != nil {
		return nil, err
	}
	out := make([]Triple, 0, len(raw))
	for _, t := range raw {
		sub, err := s.caster.castTerm(t.S, VariantNamed)
		if err != nil {
			return nil, err
		}
		obj, err := s.caster.castTerm(t.O, VariantNatural)
		if err != nil {
			return nil, err
		}
		out = append(out, Triple{
			Subject:   sub.(NamedNode),
			Predicate: NamedNode{term: t.P, labels: s},
			Object:    obj,
		})
	}
	return out, nil
}

func (s *Session) pattern(subject, predicate, object any) (st, pt, ot rdf.Term, err error) {
	if st, err = s.subjectTerm(subject, true); err != nil {
		return nil, nil, nil, err
	}
	if pt, err = s.predicateTerm(predicate, true); err != nil {
		return nil, nil, nil, err
	}
	if ot, err = s.objectTerm(object, true); err != nil {
		return nil, nil, nil, err
	}
	return st, pt, ot, nil
}

// Select runs a SELECT query against the active graph. Values in bindings
// pre-bind query variables and are converted like Node arguments.
func (s *Session) Select(query string, bindings map[string]any) (*ResultSet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", rdf.ErrArgument)
	}
	var pre map[string]rdf.Term
	if len(bindings) > 0 {
		pre = make(map[string]rdf.Term, len(bindings))
		for name, value := range bindings {
			if value == nil {
				continue
			}
			node, err := s.Node(value)
			if err != nil {
				return nil, fmt.Errorf("%w: binding ?%s: %v", rdf.ErrArgument, name, err)
			}
			pre[name] = node.Term()
		}
	}
	raw, err := s.engine.Select(s.graphs.Active(), query, pre)
	if err != nil {
		return nil, err
	}
	return s.caster.CastBindings(raw)
}

// InstanceOf reports whether node has class, or a subclass of it, as rdf:type.
func (s *Session) InstanceOf(node NamedNode, class any) (bool, error) {
	classNode, err := s.NamedNode(class)
	if err != nil {
		return false, fmt.Errorf("%w: class: %v", rdf.ErrArgument, err)
	}
	graph := s.graphs.Active()
	types, err := s.engine.Values(graph, node.term, rdf.RDFType, true)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t.Kind() == rdf.TermLiteral {
			continue
		}
		found := false
		err := s.engine.WalkSuperclasses(graph, t, func(c rdf.Term) bool {
			found = rdf.Equal(c, classNode.term)
			return !found
		})
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// SPARQLTerm renders n for substitution into query text. Blank nodes render
// as labels, which a query reads as variables, so bind them through Select
// instead. A nil node renders as "".
func SPARQLTerm(n Node) string {
	if n == nil {
		return ""
	}
	return rdf.FormatTerm(n.Term())
}

// SerializeTriples writes triples as N-Triples.
func SerializeTriples(w io.Writer, triples []Triple) error {
	raw := make([]rdf.Triple, 0, len(triples))
	for _, t := range triples {
		p, ok := t.Predicate.term.(rdf.IRI)
		if !ok || t.Subject.term == nil || t.Object == nil {
			return fmt.Errorf("%w: incomplete triple", rdf.ErrArgument)
		}
		raw = append(raw, rdf.Triple{S: t.Subject.term, P: p, O: t.Object.Term()})
	}
	return rdf.WriteTriples(w, raw)
}
