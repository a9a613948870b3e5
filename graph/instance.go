package graph

import (
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// reservedKeys name the identity and lexical fields of a Ref. They cannot be
// used as property names of a new instance.
var reservedKeys = map[string]struct{}{
	"uri": {}, "qname": {}, "lex": {}, "datatype": {}, "lang": {},
}

// InstanceSpec describes a node to create with CreateTypedInstance. URI and
// QName are mutually exclusive; with neither, a blank node is minted.
type InstanceSpec struct {
	URI        string
	QName      string
	Properties []Property
}

// Property is one predicate of a new instance and the values to assert for it.
// Predicate is a URI or a qname with a known prefix.
type Property struct {
	Predicate string
	Values    []any
}

// CreateTypedInstance creates a named node, asserts rdf:type typeURI and the
// given properties in the active graph, and returns the node. All input is
// checked before the first triple is written.
func (s *Session) CreateTypedInstance(variant Variant, typeURI string, spec *InstanceSpec) (NamedNode, error) {
	if variant == VariantLiteral {
		return NamedNode{}, fmt.Errorf("%w: instances must be named nodes", rdf.ErrConstruction)
	}
	typeNode, err := s.NamedNode(Ref{URI: typeURI})
	if err != nil {
		return NamedNode{}, err
	}
	if spec == nil {
		spec = &InstanceSpec{}
	}

	type assertion struct {
		predicate rdf.IRI
		object    rdf.Term
	}
	var pending []assertion
	for _, prop := range spec.Properties {
		if _, reserved := reservedKeys[strings.ToLower(prop.Predicate)]; reserved {
			return NamedNode{}, fmt.Errorf("%w: %q is an identity field and cannot be set as a property", rdf.ErrImmutableState, prop.Predicate)
		}
		predicate, err := s.predicateIdentity(prop.Predicate)
		if err != nil {
			return NamedNode{}, err
		}
		for _, value := range prop.Values {
			object, err := s.objectTerm(value, false)
			if err != nil {
				return NamedNode{}, err
			}
			pending = append(pending, assertion{predicate: predicate, object: object})
		}
	}

	var instance NamedNode
	if spec.URI != "" || spec.QName != "" {
		if instance, err = s.NamedNode(Ref{URI: spec.URI, QName: spec.QName}); err != nil {
			return NamedNode{}, err
		}
	} else {
		instance = s.BlankNode()
	}

	graph := s.graphs.Active()
	if err := s.engine.Add(graph, rdf.Triple{S: instance.term, P: rdf.IRI{Value: rdf.RDFType}, O: typeNode.term}); err != nil {
		return NamedNode{}, err
	}
	for _, a := range pending {
		if err := s.engine.Add(graph, rdf.Triple{S: instance.term, P: a.predicate, O: a.object}); err != nil {
			return NamedNode{}, err
		}
	}
	s.logger.Debug("created instance",
		"node", instance.URI(),
		"type", typeNode.URI(),
		"properties", len(pending))
	return instance, nil
}

func (s *Session) predicateIdentity(value string) (rdf.IRI, error) {
	if strings.TrimSpace(value) == "" {
		return rdf.IRI{}, fmt.Errorf("%w: empty property name", rdf.ErrConstruction)
	}
	uri, err := s.expandIdentity(value)
	if err != nil {
		return rdf.IRI{}, err
	}
	if strings.HasPrefix(uri, rdf.BlankNodePrefix) {
		return rdf.IRI{}, fmt.Errorf("%w: property %q must be a URI", rdf.ErrConstruction, value)
	}
	return rdf.IRI{Value: uri}, nil
}
