package graph

import (
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Node is a typed handle on one RDF term: either a NamedNode (URI or blank
// node) or a LiteralNode. Use a type switch to tell them apart.
type Node interface {
	// IsNamed reports true for URIs and blank nodes.
	IsNamed() bool
	// IsURI reports true for URIs only.
	IsURI() bool
	// IsBlank reports true for blank nodes only.
	IsBlank() bool
	// IsLiteral reports true for literals only.
	IsLiteral() bool
	// Equals compares with another node, an engine term or a primitive value.
	Equals(other any) bool
	// DisplayLabel returns a human-readable label.
	DisplayLabel() (string, error)
	// Term returns the engine-native term.
	Term() rdf.Term
	String() string

	isNode()
}

// Labeler resolves display labels of named terms.
type Labeler interface {
	LabelOf(t rdf.Term) (string, error)
}

// NamedNode is a URI or a blank node. Blank node identities start with "_:".
type NamedNode struct {
	term   rdf.Term
	labels Labeler
}

// NewNamedNode creates a node from a URI or a "_:"-prefixed blank node identity.
func NewNamedNode(identity string) (NamedNode, error) {
	if strings.TrimSpace(identity) == "" {
		return NamedNode{}, fmt.Errorf("%w: named node requires a uri", rdf.ErrConstruction)
	}
	if err := rdf.ValidateIRI(identity); err != nil {
		return NamedNode{}, fmt.Errorf("%w: %v", rdf.ErrConstruction, err)
	}
	return NamedNode{term: rdf.TermFromIdentity(identity)}, nil
}

// IRI returns a named node for a URI that is known to be valid, such as a
// vocabulary constant. It performs no validation.
func IRI(uri string) NamedNode {
	return NamedNode{term: rdf.IRI{Value: uri}}
}

// URI returns the identity: the URI, or "_:" plus the label for blank nodes.
func (n NamedNode) URI() string {
	switch t := n.term.(type) {
	case rdf.IRI:
		return t.Value
	case rdf.BlankNode:
		return t.String()
	default:
		return ""
	}
}

func (NamedNode) IsNamed() bool   { return true }
func (NamedNode) IsLiteral() bool { return false }

func (n NamedNode) IsURI() bool {
	_, ok := n.term.(rdf.IRI)
	return ok
}

func (n NamedNode) IsBlank() bool {
	_, ok := n.term.(rdf.BlankNode)
	return ok
}

// Term returns the underlying rdf.IRI or rdf.BlankNode.
func (n NamedNode) Term() rdf.Term { return n.term }

// String returns the identity.
func (n NamedNode) String() string { return n.URI() }

// Equals reports whether other denotes the same URI or blank node.
// Primitives never equal a named node.
func (n NamedNode) Equals(other any) bool {
	if n.term == nil {
		return false
	}
	switch o := other.(type) {
	case NamedNode:
		return o.term != nil && n.URI() == o.URI()
	case *NamedNode:
		return o != nil && o.term != nil && n.URI() == o.URI()
	case rdf.IRI, rdf.BlankNode:
		return rdf.Equal(n.term, o.(rdf.Term))
	default:
		return false
	}
}

// DisplayLabel asks the engine for a label and falls back to the identity.
func (n NamedNode) DisplayLabel() (string, error) {
	if n.labels == nil || n.term == nil {
		return n.URI(), nil
	}
	label, err := n.labels.LabelOf(n.term)
	if err != nil {
		return "", err
	}
	if label == "" {
		return n.URI(), nil
	}
	return label, nil
}

func (NamedNode) isNode() {}

// identity key used by sets of nodes
func (n NamedNode) key() string { return n.URI() }

// Ref describes a node the way scripts and JSON payloads refer to one:
// by uri, by qname, or by lexical form with optional datatype or language.
type Ref struct {
	URI      string  `json:"uri,omitempty"`
	QName    string  `json:"qname,omitempty"`
	Lex      *string `json:"lex,omitempty"`
	Datatype string  `json:"datatype,omitempty"`
	Lang     string  `json:"lang,omitempty"`
}

// refFromMap reads the uri/qname/lex/datatype/lang keys of a decoded JSON object.
func refFromMap(m map[string]any) (Ref, error) {
	var ref Ref
	for key, value := range m {
		s, ok := value.(string)
		if !ok {
			return Ref{}, fmt.Errorf("%w: field %q must be a string", rdf.ErrConstruction, key)
		}
		switch key {
		case "uri":
			ref.URI = s
		case "qname":
			ref.QName = s
		case "lex":
			lex := s
			ref.Lex = &lex
		case "datatype":
			ref.Datatype = s
		case "lang":
			ref.Lang = s
		default:
			return Ref{}, fmt.Errorf("%w: unknown field %q", rdf.ErrConstruction, key)
		}
	}
	return ref, nil
}

func (r Ref) named() bool { return r.URI != "" || r.QName != "" }

func (r Ref) validate() error {
	switch {
	case !r.named() && r.Lex == nil:
		return fmt.Errorf("%w: neither uri, qname nor lex given", rdf.ErrConstruction)
	case r.named() && (r.Lex != nil || r.Datatype != "" || r.Lang != ""):
		return fmt.Errorf("%w: a node cannot have both an identity and a lexical form", rdf.ErrConstruction)
	case r.URI != "" && r.QName != "":
		return fmt.Errorf("%w: both uri and qname given", rdf.ErrConstruction)
	}
	return nil
}
