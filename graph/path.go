package graph

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Path is what Value and Values follow from a node: a predicate given as a
// NamedNode, or a SPARQL 1.1 property path given as a PathExpr.
type Path interface {
	pathExpr() (expr string, simple bool)
}

// PathExpr is a SPARQL 1.1 property path, for example "ex:parent/ex:name"
// or "^ex:member*".
type PathExpr string

func (p PathExpr) pathExpr() (string, bool) { return string(p), false }

func (n NamedNode) pathExpr() (string, bool) { return n.URI(), true }

// ValueOption configures Value and Values.
type ValueOption func(*valueOptions)

type valueOptions struct {
	variant Variant
	indexed bool
}

// As requests a node variant for the results; values of the wrong kind fail with rdf.ErrCast.
func As(variant Variant) ValueOption {
	return func(o *valueOptions) { o.variant = variant }
}

// Indexed orders the results by their dash:index annotation.
func Indexed() ValueOption {
	return func(o *valueOptions) { o.indexed = true }
}

// Value returns one value of path from node in the active graph, or nil when
// there is none. With several values, which one is returned is unspecified.
func (s *Session) Value(node NamedNode, path Path, opts ...ValueOption) (Node, error) {
	options := applyValueOptions(opts)
	raw, err := s.rawValues(node, path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return s.caster.castTerm(raw[0], options.variant)
}

// Values returns all values of path from node in the active graph. Without
// Indexed the order is whatever the engine produced.
func (s *Session) Values(node NamedNode, path Path, opts ...ValueOption) ([]Node, error) {
	options := applyValueOptions(opts)
	raw, err := s.rawValues(node, path)
	if err != nil {
		return nil, err
	}
	if options.indexed {
		if raw, err = s.orderByIndex(node, path, raw); err != nil {
			return nil, err
		}
	}
	values, err := s.caster.CastValues(raw, options.variant)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(values))
	for _, v := range values {
		if node, ok := v.(Node); ok {
			out = append(out, node)
		}
	}
	return out, nil
}

func applyValueOptions(opts []ValueOption) valueOptions {
	options := valueOptions{variant: VariantNatural}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func (s *Session) rawValues(node NamedNode, path Path) ([]rdf.Term, error) {
	if node.term == nil {
		return nil, fmt.Errorf("%w: missing node", rdf.ErrArgument)
	}
	if path == nil {
		return nil, fmt.Errorf("%w: missing path", rdf.ErrArgument)
	}
	expr, simple := path.pathExpr()
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty path", rdf.ErrArgument)
	}
	return s.engine.Values(s.graphs.Active(), node.term, expr, simple)
}

// orderByIndex sorts values by the dash:index of the reified statement
// (node, predicate, value). Values without an index keep their relative
// order after all indexed ones. Only predicate paths carry statements that
// can be annotated, so path expressions come back unchanged.
func (s *Session) orderByIndex(node NamedNode, path Path, values []rdf.Term) ([]rdf.Term, error) {
	expr, simple := path.pathExpr()
	if !simple || len(values) < 2 {
		return values, nil
	}
	indexes, err := s.statementIndexes(node.term, rdf.IRI{Value: expr})
	if err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		return values, nil
	}

	type ranked struct {
		term  rdf.Term
		index float64
	}
	list := make([]ranked, len(values))
	for i, v := range values {
		idx, ok := indexes[rdf.Key(v)]
		if !ok {
			idx = math.Inf(1)
		}
		list[i] = ranked{term: v, index: idx}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].index < list[j].index })

	out := make([]rdf.Term, len(list))
	for i, r := range list {
		out[i] = r.term
	}
	return out, nil
}

// statementIndexes maps each object key to the dash:index found on a
// statement reifying (subject, predicate, object).
func (s *Session) statementIndexes(subject rdf.Term, predicate rdf.IRI) (map[string]float64, error) {
	graph := s.graphs.Active()
	statements, err := s.engine.Match(graph, nil, rdf.IRI{Value: rdf.RDFSubject}, subject)
	if err != nil {
		return nil, err
	}
	indexes := make(map[string]float64)
	for _, st := range statements {
		stmt := st.S
		ok, err := s.engine.Contains(graph, stmt, rdf.IRI{Value: rdf.RDFPredicate}, predicate)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		objects, err := s.engine.Match(graph, stmt, rdf.IRI{Value: rdf.RDFObject}, nil)
		if err != nil {
			return nil, err
		}
		annotations, err := s.engine.Match(graph, stmt, rdf.IRI{Value: rdf.DASHIndex}, nil)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 || len(annotations) == 0 {
			continue
		}
		lit, ok := annotations[0].O.(rdf.Literal)
		if !ok {
			continue
		}
		idx, err := LiteralNode{lit: lit}.AsNumber()
		if err != nil {
			s.logger.Debug("ignoring non-numeric dash:index", "statement", stmt.String(), "value", lit.Lexical)
			continue
		}
		for _, o := range objects {
			key := rdf.Key(o.O)
			if prev, seen := indexes[key]; !seen || idx < prev {
				indexes[key] = idx
			}
		}
	}
	return indexes, nil
}
