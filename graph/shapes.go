package graph

import (
	"fmt"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// ShapesFor returns the shapes that apply directly to node in the active
// graph: its types that are themselves shapes, plus every shape declaring
// sh:targetClass or dash:applicableToClass for one of its types or their
// superclasses. Each shape appears once. Shapes with sh:deactivated true are
// left out. The order of the result is unspecified.
func (s *Session) ShapesFor(node NamedNode) ([]NamedNode, error) {
	if node.term == nil {
		return nil, fmt.Errorf("%w: missing node", rdf.ErrArgument)
	}
	graph := s.graphs.Active()
	types, err := s.engine.Values(graph, node.term, rdf.RDFType, true)
	if err != nil {
		return nil, err
	}

	found := newShapeSet()
	shapeClass := IRI(rdf.SHShape)
	for _, raw := range types {
		if raw.Kind() == rdf.TermLiteral {
			continue
		}
		typeNode, err := s.caster.castTerm(raw, VariantNamed)
		if err != nil {
			return nil, err
		}
		class := typeNode.(NamedNode)

		isShape, err := s.InstanceOf(class, shapeClass)
		if err != nil {
			return nil, err
		}
		if isShape {
			found.add(class)
		}

		var walkErr error
		err = s.engine.WalkSuperclasses(graph, class.term, func(c rdf.Term) bool {
			walkErr = s.collectTargeting(graph, c, found)
			return walkErr == nil
		})
		if err != nil {
			return nil, err
		}
		if walkErr != nil {
			return nil, walkErr
		}
	}

	out := make([]NamedNode, 0, found.len())
	for _, shape := range found.list() {
		deactivated, err := s.deactivated(graph, shape)
		if err != nil {
			return nil, err
		}
		if !deactivated {
			out = append(out, shape)
		}
	}
	return out, nil
}

// collectTargeting adds the subjects of dash:applicableToClass and
// sh:targetClass statements pointing at class.
func (s *Session) collectTargeting(graph string, class rdf.Term, found *shapeSet) error {
	for _, predicate := range []string{rdf.DASHApplicableToClass, rdf.SHTargetClass} {
		triples, err := s.engine.Match(graph, nil, rdf.IRI{Value: predicate}, class)
		if err != nil {
			return err
		}
		for _, t := range triples {
			shape, err := s.caster.castTerm(t.S, VariantNamed)
			if err != nil {
				return err
			}
			found.add(shape.(NamedNode))
		}
	}
	return nil
}

func (s *Session) deactivated(graph string, shape NamedNode) (bool, error) {
	values, err := s.engine.Values(graph, shape.term, rdf.SHDeactivated, true)
	if err != nil {
		return false, err
	}
	for _, v := range values {
		lit, ok := v.(rdf.Literal)
		if !ok || lit.EffectiveDatatype() != rdf.XSDBoolean {
			continue
		}
		if b, err := (LiteralNode{lit: lit}).AsBoolean(); err == nil && b {
			return true, nil
		}
	}
	return false, nil
}

// shapeSet keeps insertion order and deduplicates by identity.
type shapeSet struct {
	seen  map[string]struct{}
	items []NamedNode
}

func newShapeSet() *shapeSet {
	return &shapeSet{seen: make(map[string]struct{})}
}

func (s *shapeSet) add(n NamedNode) {
	k := n.key()
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, n)
}

func (s *shapeSet) len() int { return len(s.items) }

func (s *shapeSet) list() []NamedNode { return s.items }
