package graph

import (
	"fmt"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// maxTreeDepth bounds blank node expansion so cyclic blank structures terminate.
const maxTreeDepth = 64

// ValuesTree renders node as a JSON-ready value. Blank nodes expand into an
// object keyed by predicate URI whose values are arrays. URIs become
// {"label", "uri"} and literals {"lex", "datatype"}.
func (s *Session) ValuesTree(node NamedNode) (map[string]any, error) {
	return s.valuesTree(node, map[string]struct{}{}, 0)
}

func (s *Session) valuesTree(node NamedNode, visiting map[string]struct{}, depth int) (map[string]any, error) {
	if node.term == nil {
		return nil, fmt.Errorf("%w: missing node", rdf.ErrArgument)
	}
	if !node.IsBlank() {
		label, err := s.labelOrIdentity(node)
		if err != nil {
			return nil, err
		}
		return map[string]any{"label": label, "uri": node.URI()}, nil
	}

	key := node.key()
	if _, cycle := visiting[key]; cycle || depth >= maxTreeDepth {
		return map[string]any{"uri": node.URI()}, nil
	}
	visiting[key] = struct{}{}
	defer delete(visiting, key)

	triples, err := s.engine.Match(s.graphs.Active(), node.term, nil, nil)
	if err != nil {
		return nil, err
	}
	obj := make(map[string]any)
	for _, t := range triples {
		predicate := t.P.Value
		values, _ := obj[predicate].([]any)
		switch o := t.O.(type) {
		case rdf.Literal:
			values = append(values, map[string]any{"lex": o.Lexical, "datatype": o.EffectiveDatatype()})
		default:
			child, err := s.caster.castTerm(o, VariantNamed)
			if err != nil {
				return nil, err
			}
			sub, err := s.valuesTree(child.(NamedNode), visiting, depth+1)
			if err != nil {
				return nil, err
			}
			values = append(values, sub)
		}
		obj[predicate] = values
	}
	return obj, nil
}

func (s *Session) labelOrIdentity(node NamedNode) (string, error) {
	if node.labels == nil {
		node.labels = s
	}
	return node.DisplayLabel()
}
