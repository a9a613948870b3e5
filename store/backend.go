package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Backend stores triples grouped into named graphs. Nil terms in Remove
// and Match are wildcards. Implementations must be safe for concurrent use.
type Backend interface {
	// Add inserts t into graph, creating the graph if needed. It reports
	// whether the triple was new.
	Add(graph string, t rdf.Triple) (bool, error)
	// Remove deletes every matching triple and returns how many were removed.
	Remove(graph string, s, p, o rdf.Term) (int, error)
	// Match returns the matching triples of graph.
	Match(graph string, s, p, o rdf.Term) ([]rdf.Triple, error)
	// CreateGraph registers an empty graph. Existing graphs are left as they are.
	CreateGraph(graph string) error
	// Graphs lists the registered graphs in sorted order.
	Graphs() ([]string, error)
	Close() error
}

// decodeKey is the inverse of rdf.Key.
func decodeKey(key string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(key, "<") && strings.HasSuffix(key, ">"):
		return rdf.IRI{Value: key[1 : len(key)-1]}, nil
	case strings.HasPrefix(key, rdf.BlankNodePrefix):
		return rdf.BlankNode{ID: key[len(rdf.BlankNodePrefix):]}, nil
	case strings.HasPrefix(key, `"`):
		quoted, err := strconv.QuotedPrefix(key)
		if err != nil {
			return nil, fmt.Errorf("decode literal key %q: %w", key, err)
		}
		lex, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, fmt.Errorf("decode literal key %q: %w", key, err)
		}
		rest := key[len(quoted):]
		switch {
		case strings.HasPrefix(rest, "@"):
			return rdf.Literal{Lexical: lex, Lang: rest[1:]}, nil
		case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
			return rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: rest[3 : len(rest)-1]}}, nil
		}
	}
	return nil, fmt.Errorf("malformed term key %q", key)
}

// normalizeTriple gives literals their effective datatype so that equal
// literals share one key.
func normalizeTriple(t rdf.Triple) rdf.Triple {
	if lit, ok := t.O.(rdf.Literal); ok && lit.Lang == "" && lit.Datatype.Value == "" {
		lit.Datatype = rdf.IRI{Value: rdf.XSDString}
		t.O = lit
	}
	return t
}

func checkTriple(t rdf.Triple) error {
	switch {
	case t.S == nil || t.O == nil || t.P.Value == "":
		return fmt.Errorf("incomplete triple %v", t)
	case t.S.Kind() == rdf.TermLiteral:
		return fmt.Errorf("literal subject in %s", t)
	}
	return nil
}
