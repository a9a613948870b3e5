package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/rdf"
)

func TestCastValue(t *testing.T) {
	c := graph.NewCaster(nil)

	v, err := c.CastValue(nil, graph.VariantNatural)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = c.CastValue(int64(3), graph.VariantLiteral)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v, "primitives pass through")

	v, err = c.CastValue(iri("a"), graph.VariantNatural)
	require.NoError(t, err)
	require.IsType(t, graph.NamedNode{}, v)
	assert.Equal(t, ex+"a", v.(graph.NamedNode).URI())

	v, err = c.CastValue(rdf.BlankNode{ID: "x"}, graph.VariantNamed)
	require.NoError(t, err)
	assert.True(t, v.(graph.NamedNode).IsBlank())

	v, err = c.CastValue(str("hi"), graph.VariantLiteral)
	require.NoError(t, err)
	require.IsType(t, graph.LiteralNode{}, v)
	assert.Equal(t, "hi", v.(graph.LiteralNode).Lex())
}

func TestCastValue_WrongVariant(t *testing.T) {
	c := graph.NewCaster(nil)
	tests := []struct {
		name    string
		raw     any
		variant graph.Variant
	}{
		{"literal as named", str("x"), graph.VariantNamed},
		{"iri as literal", iri("x"), graph.VariantLiteral},
		{"blank as literal", rdf.BlankNode{ID: "b"}, graph.VariantLiteral},
		{"named node as literal", graph.IRI(ex + "x"), graph.VariantLiteral},
		{"empty iri", rdf.IRI{}, graph.VariantNatural},
		{"zero named node", graph.NamedNode{}, graph.VariantNatural},
		{"unsupported value", []string{"x"}, graph.VariantNatural},
		{"malformed literal", rdf.Literal{Lexical: "x", Lang: "en", Datatype: rdf.IRI{Value: rdf.XSDInteger}}, graph.VariantNatural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CastValue(tt.raw, tt.variant)
			assert.ErrorIs(t, err, rdf.ErrCast)
		})
	}
}

func TestCastValues(t *testing.T) {
	c := graph.NewCaster(nil)
	out, err := c.CastValues([]rdf.Term{iri("a"), str("b"), nil}, graph.VariantNatural)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Nil(t, out[2])

	_, err = c.CastValues([]rdf.Term{iri("a"), str("b")}, graph.VariantNamed)
	require.Error(t, err)
	assert.ErrorIs(t, err, rdf.ErrCast)
	assert.Contains(t, err.Error(), "value 1")
}

func TestCastBindings(t *testing.T) {
	c := graph.NewCaster(nil)
	raw := &rdf.ResultTable{
		Vars: []string{"s", "p", "o"},
		Rows: []map[string]interface{}{
			{"s": iri("a"), "p": iri("name"), "o": str("A")},
			{"s": iri("b"), "p": iri("name")},
			{"s": iri("c"), "p": iri("age"), "o": int64(30)},
		},
	}
	rs, err := c.CastBindings(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "p", "o"}, rs.Vars)
	require.Equal(t, 3, rs.Len())
	for _, b := range rs.Bindings {
		assert.Len(t, b, 3)
		for _, name := range rs.Vars {
			assert.Contains(t, b, name)
		}
	}
	assert.Nil(t, rs.Bindings[1]["o"], "unbound variables are nil")
	assert.Equal(t, int64(30), rs.Bindings[2]["o"])

	subjects := rs.Column("s")
	require.Len(t, subjects, 3)
	assert.Equal(t, ex+"a", subjects[0].(graph.NamedNode).URI())
	assert.Equal(t, ex+"c", subjects[2].(graph.NamedNode).URI())
}

func TestCastBindings_Empty(t *testing.T) {
	rs, err := graph.NewCaster(nil).CastBindings(&rdf.ResultTable{Vars: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, rs.Vars)
	assert.Zero(t, rs.Len())
}

func TestCastBindings_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  *rdf.ResultTable
	}{
		{"nil result", nil},
		{"bad value aborts", &rdf.ResultTable{
			Vars: []string{"s"},
			Rows: []map[string]interface{}{{"s": iri("a")}, {"s": rdf.IRI{}}},
		}},
		{"undeclared variable", &rdf.ResultTable{
			Vars: []string{"s"},
			Rows: []map[string]interface{}{{"s": iri("a"), "extra": iri("b")}},
		}},
		{"duplicate variable", &rdf.ResultTable{Vars: []string{"s", "s"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := graph.NewCaster(nil).CastBindings(tt.raw)
			assert.ErrorIs(t, err, rdf.ErrCast)
			assert.Nil(t, rs)
		})
	}
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "natural", graph.VariantNatural.String())
	assert.Equal(t, "named", graph.VariantNamed.String())
	assert.Equal(t, "literal", graph.VariantLiteral.String())
}
