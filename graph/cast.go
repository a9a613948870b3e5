package graph

import (
	"fmt"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Variant selects the node type a cast should produce.
type Variant uint8

const (
	// VariantNatural yields NamedNode for URIs and blank nodes, LiteralNode for literals.
	VariantNatural Variant = iota
	// VariantNamed requires a URI or blank node.
	VariantNamed
	// VariantLiteral requires a literal.
	VariantLiteral
)

func (v Variant) String() string {
	switch v {
	case VariantNamed:
		return "named"
	case VariantLiteral:
		return "literal"
	default:
		return "natural"
	}
}

// Binding is one result row. Every variable of the result is present as a
// key; unbound variables map to nil.
type Binding map[string]any

// ResultSet is an immutable snapshot of a SELECT result.
type ResultSet struct {
	Vars     []string
	Bindings []Binding
}

// Len returns the number of rows.
func (r *ResultSet) Len() int { return len(r.Bindings) }

// Column returns the values bound to name, one per row.
func (r *ResultSet) Column(name string) []any {
	out := make([]any, len(r.Bindings))
	for i, b := range r.Bindings {
		out[i] = b[name]
	}
	return out
}

// Caster is the single conversion point between engine-native values and
// typed nodes. Named nodes it produces resolve their labels through labels.
type Caster struct {
	labels Labeler
}

// NewCaster returns a caster; labels may be nil.
func NewCaster(labels Labeler) Caster {
	return Caster{labels: labels}
}

// CastValue converts one raw engine value. nil stays nil and primitives are
// returned unchanged. Engine terms become nodes of the requested variant.
func (c Caster) CastValue(raw any, variant Variant) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, nil
	case NamedNode:
		if v.term == nil {
			return nil, fmt.Errorf("%w: zero named node", rdf.ErrCast)
		}
		if variant == VariantLiteral {
			return nil, fmt.Errorf("%w: %s is not a literal", rdf.ErrCast, v.URI())
		}
		if v.labels == nil {
			v.labels = c.labels
		}
		return v, nil
	case LiteralNode:
		if variant == VariantNamed {
			return nil, fmt.Errorf("%w: literal %q is not a named node", rdf.ErrCast, v.Lex())
		}
		return v, nil
	case rdf.Term:
		return c.castTerm(v, variant)
	default:
		return nil, fmt.Errorf("%w: unsupported engine value %T", rdf.ErrCast, raw)
	}
}

func (c Caster) castTerm(t rdf.Term, variant Variant) (Node, error) {
	switch v := t.(type) {
	case rdf.IRI:
		if v.Value == "" {
			return nil, fmt.Errorf("%w: empty IRI", rdf.ErrCast)
		}
	case rdf.BlankNode:
		if v.ID == "" {
			return nil, fmt.Errorf("%w: blank node without id", rdf.ErrCast)
		}
	case rdf.Literal:
		if variant == VariantNamed {
			return nil, fmt.Errorf("%w: literal %s is not a named node", rdf.ErrCast, v)
		}
		node, err := newLiteralNode(v)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed literal %s: %v", rdf.ErrCast, v, err)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("%w: unsupported term kind %d", rdf.ErrCast, t.Kind())
	}
	if variant == VariantLiteral {
		return nil, fmt.Errorf("%w: %s is not a literal", rdf.ErrCast, t)
	}
	return NamedNode{term: t, labels: c.labels}, nil
}

// CastValues casts every element in order. The first failure aborts the batch.
func (c Caster) CastValues(list []rdf.Term, variant Variant) ([]any, error) {
	out := make([]any, 0, len(list))
	for i, raw := range list {
		var value any
		if raw != nil {
			var err error
			if value, err = c.castTerm(raw, variant); err != nil {
				return nil, fmt.Errorf("value %d: %w", i, err)
			}
		}
		out = append(out, value)
	}
	return out, nil
}

// CastBindings converts a raw result table. Row order and the variable list
// are preserved, and unbound variables appear as nil. A value that cannot be
// cast, or a row carrying an undeclared variable, fails the whole result.
func (c Caster) CastBindings(raw *rdf.ResultTable) (*ResultSet, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: missing result", rdf.ErrCast)
	}
	declared := make(map[string]struct{}, len(raw.Vars))
	for _, name := range raw.Vars {
		if _, dup := declared[name]; dup {
			return nil, fmt.Errorf("%w: duplicate variable %q", rdf.ErrCast, name)
		}
		declared[name] = struct{}{}
	}

	result := &ResultSet{
		Vars:     append([]string(nil), raw.Vars...),
		Bindings: make([]Binding, 0, len(raw.Rows)),
	}
	for i, row := range raw.Rows {
		for name := range row {
			if _, ok := declared[name]; !ok {
				return nil, fmt.Errorf("%w: row %d binds undeclared variable %q", rdf.ErrCast, i, name)
			}
		}
		binding := make(Binding, len(raw.Vars))
		for _, name := range raw.Vars {
			value, err := c.CastValue(row[name], VariantNatural)
			if err != nil {
				return nil, fmt.Errorf("row %d, ?%s: %w", i, name, err)
			}
			binding[name] = value
		}
		result.Bindings = append(result.Bindings, binding)
	}
	return result, nil
}
