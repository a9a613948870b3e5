package store

import (
	"sort"
	"sync"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// MemoryBackend keeps every graph in maps indexed by subject, predicate and
// object. Match returns triples in insertion order.
type MemoryBackend struct {
	mu     sync.RWMutex
	graphs map[string]*memGraph
	seq    uint64
}

type memEntry struct {
	triple rdf.Triple
	seq    uint64
}

type memGraph struct {
	triples     map[string]memEntry
	bySubject   map[string]map[string]struct{}
	byPredicate map[string]map[string]struct{}
	byObject    map[string]map[string]struct{}
}

func newMemGraph() *memGraph {
	return &memGraph{
		triples:     make(map[string]memEntry),
		bySubject:   make(map[string]map[string]struct{}),
		byPredicate: make(map[string]map[string]struct{}),
		byObject:    make(map[string]map[string]struct{}),
	}
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{graphs: make(map[string]*memGraph)}
}

func tripleKey(t rdf.Triple) string {
	return rdf.Key(t.S) + " " + rdf.Key(t.P) + " " + rdf.Key(t.O)
}

func addIndex(index map[string]map[string]struct{}, term, key string) {
	set, ok := index[term]
	if !ok {
		set = make(map[string]struct{})
		index[term] = set
	}
	set[key] = struct{}{}
}

func dropIndex(index map[string]map[string]struct{}, term, key string) {
	if set, ok := index[term]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(index, term)
		}
	}
}

func (b *MemoryBackend) Add(graph string, t rdf.Triple) (bool, error) {
	if err := checkTriple(t); err != nil {
		return false, err
	}
	t = normalizeTriple(t)
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.graphs[graph]
	if !ok {
		g = newMemGraph()
		b.graphs[graph] = g
	}
	key := tripleKey(t)
	if _, exists := g.triples[key]; exists {
		return false, nil
	}
	b.seq++
	g.triples[key] = memEntry{triple: t, seq: b.seq}
	addIndex(g.bySubject, rdf.Key(t.S), key)
	addIndex(g.byPredicate, rdf.Key(t.P), key)
	addIndex(g.byObject, rdf.Key(t.O), key)
	return true, nil
}

func (b *MemoryBackend) Remove(graph string, s, p, o rdf.Term) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.graphs[graph]
	if !ok {
		return 0, nil
	}
	matches := g.match(s, p, o)
	for _, e := range matches {
		key := tripleKey(e.triple)
		delete(g.triples, key)
		dropIndex(g.bySubject, rdf.Key(e.triple.S), key)
		dropIndex(g.byPredicate, rdf.Key(e.triple.P), key)
		dropIndex(g.byObject, rdf.Key(e.triple.O), key)
	}
	return len(matches), nil
}

func (b *MemoryBackend) Match(graph string, s, p, o rdf.Term) ([]rdf.Triple, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.graphs[graph]
	if !ok {
		return nil, nil
	}
	entries := g.match(s, p, o)
	out := make([]rdf.Triple, len(entries))
	for i, e := range entries {
		out[i] = e.triple
	}
	return out, nil
}

// match scans the smallest index selected by the bound terms.
func (g *memGraph) match(s, p, o rdf.Term) []memEntry {
	if o != nil {
		if lit, ok := o.(rdf.Literal); ok {
			o = normalizeTriple(rdf.Triple{O: lit}).O
		}
	}
	var candidates map[string]struct{}
	pick := func(index map[string]map[string]struct{}, term rdf.Term) bool {
		if term == nil {
			return true
		}
		set := index[rdf.Key(term)]
		if candidates == nil || len(set) < len(candidates) {
			candidates = set
		}
		return len(set) > 0
	}
	if !pick(g.bySubject, s) || !pick(g.byPredicate, p) || !pick(g.byObject, o) {
		return nil
	}

	var out []memEntry
	consider := func(e memEntry) {
		if (s == nil || rdf.Equal(s, e.triple.S)) &&
			(p == nil || rdf.Equal(p, e.triple.P)) &&
			(o == nil || rdf.Equal(o, e.triple.O)) {
			out = append(out, e)
		}
	}
	if candidates == nil {
		for _, e := range g.triples {
			consider(e)
		}
	} else {
		for key := range candidates {
			consider(g.triples[key])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (b *MemoryBackend) CreateGraph(graph string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.graphs[graph]; !ok {
		b.graphs[graph] = newMemGraph()
	}
	return nil
}

func (b *MemoryBackend) Graphs() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.graphs))
	for name := range b.graphs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (b *MemoryBackend) Close() error { return nil }
