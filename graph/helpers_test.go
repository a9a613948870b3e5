package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/internal/logging"
	"github.com/geoknoesis/rdf-graph/rdf"
	"github.com/geoknoesis/rdf-graph/store"
)

const ex = "http://example.org/"

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.NewMemory(
		store.WithLogger(logging.Discard()),
		store.WithPrefixes(map[string]string{"ex": ex}),
	)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newSession(t *testing.T) (*graph.Session, *store.Store) {
	t.Helper()
	s := newStore(t)
	return graph.NewSession(s, graph.WithLogger(logging.Discard())), s
}

func iri(local string) rdf.IRI { return rdf.IRI{Value: ex + local} }

func str(lex string) rdf.Literal {
	return rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: rdf.XSDString}}
}

func typed(lex, datatype string) rdf.Literal {
	return rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: datatype}}
}

// assertTriples adds triples to graph of s, failing the test on error.
func assertTriples(t *testing.T, s *store.Store, graphName string, triples ...rdf.Triple) {
	t.Helper()
	for _, tr := range triples {
		require.NoError(t, s.Add(graphName, tr))
	}
}

func triple(s rdf.Term, p string, o rdf.Term) rdf.Triple {
	return rdf.Triple{S: s, P: rdf.IRI{Value: p}, O: o}
}

func uris(nodes []graph.NamedNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.URI()
	}
	return out
}

func lexes(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}
