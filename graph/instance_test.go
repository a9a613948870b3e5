package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/rdf"
)

func TestCreateTypedInstance(t *testing.T) {
	sess, _ := newSession(t)
	node, err := sess.CreateTypedInstance(graph.VariantNamed, ex+"Person", &graph.InstanceSpec{
		QName: "ex:dana",
		Properties: []graph.Property{
			{Predicate: "rdfs:label", Values: []any{"Dana"}},
			{Predicate: ex + "age", Values: []any{41}},
			{Predicate: "ex:knows", Values: []any{graph.IRI(ex + "alice"), graph.IRI(ex + "bob")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ex+"dana", node.URI())

	ok, err := sess.InstanceOf(node, ex+"Person")
	require.NoError(t, err)
	assert.True(t, ok)

	age, err := sess.Value(node, graph.IRI(ex+"age"))
	require.NoError(t, err)
	assert.True(t, age.Equals(41))

	knows, err := sess.Values(node, graph.IRI(ex+"knows"))
	require.NoError(t, err)
	assert.Len(t, knows, 2)

	label, err := node.DisplayLabel()
	require.NoError(t, err)
	assert.Equal(t, "Dana", label)
}

func TestCreateTypedInstance_BlankNode(t *testing.T) {
	sess, _ := newSession(t)
	node, err := sess.CreateTypedInstance(graph.VariantNatural, ex+"Address", nil)
	require.NoError(t, err)
	assert.True(t, node.IsBlank())
	assert.True(t, strings.HasPrefix(node.URI(), "_:"))

	ok, err := sess.Contains(node, rdf.RDFType, graph.IRI(ex+"Address"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateTypedInstance_Rejected(t *testing.T) {
	sess, _ := newSession(t)

	_, err := sess.CreateTypedInstance(graph.VariantLiteral, ex+"Person", nil)
	assert.ErrorIs(t, err, rdf.ErrConstruction)

	for _, key := range []string{"uri", "qname", "lex", "datatype", "lang", "URI"} {
		_, err = sess.CreateTypedInstance(graph.VariantNamed, ex+"Person", &graph.InstanceSpec{
			URI:        ex + "x",
			Properties: []graph.Property{{Predicate: key, Values: []any{"v"}}},
		})
		assert.ErrorIs(t, err, rdf.ErrImmutableState, key)
	}

	_, err = sess.CreateTypedInstance(graph.VariantNamed, ex+"Person", &graph.InstanceSpec{
		URI:        ex + "x",
		Properties: []graph.Property{{Predicate: "not a uri", Values: []any{"v"}}},
	})
	assert.ErrorIs(t, err, rdf.ErrConstruction)

	_, err = sess.CreateTypedInstance(graph.VariantNamed, "", nil)
	assert.ErrorIs(t, err, rdf.ErrConstruction)

	// nothing was written by the rejected calls
	triples, err := sess.Triples(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, triples)
}
