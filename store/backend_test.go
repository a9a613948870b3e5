package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-graph/rdf"
)

const ex = "http://example.org/"

func iri(local string) rdf.IRI { return rdf.IRI{Value: ex + local} }

func str(lex string) rdf.Literal {
	return rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: rdf.XSDString}}
}

func triple(s rdf.Term, p string, o rdf.Term) rdf.Triple {
	return rdf.Triple{S: s, P: rdf.IRI{Value: p}, O: o}
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	bb, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bb.Close() })
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"badger": bb,
	}
}

func TestBackendConformance(t *testing.T) {
	const g = "urn:x-graph:test"
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			data := []rdf.Triple{
				triple(iri("alice"), ex+"knows", iri("bob")),
				triple(iri("alice"), ex+"knows", iri("carol")),
				triple(iri("alice"), ex+"name", rdf.Literal{Lexical: "Alice"}),
				triple(iri("bob"), ex+"name", rdf.Literal{Lexical: "Bob", Lang: "en"}),
				triple(rdf.BlankNode{ID: "b1"}, ex+"age", rdf.Literal{Lexical: "7", Datatype: rdf.IRI{Value: rdf.XSDInteger}}),
				triple(iri("carol"), ex+"note", rdf.Literal{Lexical: "line\none \"quoted\""}),
			}
			for _, tr := range data {
				added, err := b.Add(g, tr)
				require.NoError(t, err)
				assert.True(t, added)
			}
			added, err := b.Add(g, data[0])
			require.NoError(t, err)
			assert.False(t, added, "duplicates are ignored")

			all, err := b.Match(g, nil, nil, nil)
			require.NoError(t, err)
			assert.Len(t, all, len(data))

			knows, err := b.Match(g, iri("alice"), iri("knows"), nil)
			require.NoError(t, err)
			assert.ElementsMatch(t, data[:2], knows)

			byObject, err := b.Match(g, nil, nil, iri("bob"))
			require.NoError(t, err)
			assert.Equal(t, []rdf.Triple{data[0]}, byObject)

			// an untyped literal matches its xsd:string form
			name, err := b.Match(g, nil, iri("name"), str("Alice"))
			require.NoError(t, err)
			require.Len(t, name, 1)
			assert.Equal(t, rdf.XSDString, name[0].O.(rdf.Literal).Datatype.Value)

			exact, err := b.Match(g, data[5].S, data[5].P, data[5].O)
			require.NoError(t, err)
			assert.Len(t, exact, 1, "escaped lexical forms round-trip")

			blank, err := b.Match(g, rdf.BlankNode{ID: "b1"}, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, []rdf.Triple{data[4]}, blank)

			subjectObject, err := b.Match(g, iri("alice"), nil, iri("carol"))
			require.NoError(t, err)
			assert.Equal(t, []rdf.Triple{data[1]}, subjectObject)

			none, err := b.Match(g, iri("nobody"), nil, nil)
			require.NoError(t, err)
			assert.Empty(t, none)

			other, err := b.Match("urn:x-graph:other", nil, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, other)

			n, err := b.Remove(g, iri("alice"), iri("knows"), nil)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			rest, err := b.Match(g, nil, nil, nil)
			require.NoError(t, err)
			assert.Len(t, rest, len(data)-2)

			require.NoError(t, b.CreateGraph("urn:x-graph:empty"))
			graphs, err := b.Graphs()
			require.NoError(t, err)
			assert.Equal(t, []string{"urn:x-graph:empty", g}, graphs)
		})
	}
}

func TestBackendRejectsInvalidTriples(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Add("urn:g", rdf.Triple{S: iri("a"), P: iri("p")})
			assert.Error(t, err)
			_, err = b.Add("urn:g", rdf.Triple{S: str("lit"), P: iri("p"), O: iri("b")})
			assert.Error(t, err)
		})
	}
}

func TestBackendGraphIsolation(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			tr := triple(iri("a"), ex+"p", iri("b"))
			_, err := b.Add("urn:g1", tr)
			require.NoError(t, err)
			_, err = b.Add("urn:g2", triple(iri("a"), ex+"p", iri("c")))
			require.NoError(t, err)

			g1, err := b.Match("urn:g1", iri("a"), nil, nil)
			require.NoError(t, err)
			assert.Equal(t, []rdf.Triple{tr}, g1)

			n, err := b.Remove("urn:g2", nil, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			g1, err = b.Match("urn:g1", nil, nil, nil)
			require.NoError(t, err)
			assert.Len(t, g1, 1)
		})
	}
}

func TestMemoryBackendInsertionOrder(t *testing.T) {
	b := NewMemoryBackend()
	var want []rdf.Triple
	for _, v := range []string{"z", "a", "m"} {
		tr := triple(iri("s"), ex+"p", str(v))
		want = append(want, tr)
		_, err := b.Add("urn:g", tr)
		require.NoError(t, err)
	}
	got, err := b.Match("urn:g", iri("s"), iri("p"), nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeKey(t *testing.T) {
	terms := []rdf.Term{
		iri("a"),
		rdf.BlankNode{ID: "x1"},
		str("plain \"quoted\"\n"),
		rdf.Literal{Lexical: "hi", Lang: "en-GB"},
		rdf.Literal{Lexical: "1", Datatype: rdf.IRI{Value: rdf.XSDInteger}},
	}
	for _, term := range terms {
		decoded, err := decodeKey(rdf.Key(term))
		require.NoError(t, err, rdf.Key(term))
		assert.True(t, rdf.Equal(term, decoded), rdf.Key(term))
	}

	for _, bad := range []string{"", "plain", `"unterminated`, `"x"^^http://a`} {
		_, err := decodeKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestOpenBadgerPersistent(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	tr := triple(iri("a"), ex+"p", str("v"))
	_, err = b.Add("urn:g", tr)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	reopened, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Match("urn:g", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Triple{tr}, got)
	graphs, err := reopened.Graphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:g"}, graphs)
}

func TestBackendLanguageTagCase(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			isNew, err := b.Add("urn:g", triple(iri("a"), ex+"p", rdf.Literal{Lexical: "x", Lang: "EN"}))
			require.NoError(t, err)
			assert.True(t, isNew)
			isNew, err = b.Add("urn:g", triple(iri("a"), ex+"p", rdf.Literal{Lexical: "x", Lang: "en"}))
			require.NoError(t, err)
			assert.False(t, isNew)

			got, err := b.Match("urn:g", nil, nil, rdf.Literal{Lexical: "x", Lang: "en"})
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}
