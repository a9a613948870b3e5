package store

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// BadgerConfig configures a BadgerBackend.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps all data in memory. Useful for tests.
	InMemory bool
	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool
	// Logger receives badger's own log output. Nil disables it.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Index key layout. Every key starts with an index tag and the graph name,
// followed by the three term keys in index order:
//
//	s \0 graph \0 S \0 P \0 O
//	p \0 graph \0 P \0 O \0 S
//	o \0 graph \0 O \0 S \0 P
//
// Graph registrations are stored under g \0 graph.
const (
	indexSPO   byte = 's'
	indexPOS   byte = 'p'
	indexOSP   byte = 'o'
	indexGraph byte = 'g'
	keySep     byte = 0
)

// BadgerBackend stores triples in badger with three covering indexes so
// that every bound/unbound combination is answered by one prefix scan.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadger opens or creates a badger database.
func OpenBadger(cfg BadgerConfig) (*BadgerBackend, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func indexKey(index byte, graph string, parts ...string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(index)
	buf.WriteByte(keySep)
	buf.WriteString(graph)
	for _, p := range parts {
		buf.WriteByte(keySep)
		buf.WriteString(p)
	}
	return buf.Bytes()
}

func tripleKeys(graph string, t rdf.Triple) [3][]byte {
	s, p, o := rdf.Key(t.S), rdf.Key(t.P), rdf.Key(t.O)
	return [3][]byte{
		indexKey(indexSPO, graph, s, p, o),
		indexKey(indexPOS, graph, p, o, s),
		indexKey(indexOSP, graph, o, s, p),
	}
}

func (b *BadgerBackend) Add(graph string, t rdf.Triple) (bool, error) {
	if err := checkTriple(t); err != nil {
		return false, err
	}
	t = normalizeTriple(t)
	keys := tripleKeys(graph, t)
	added := false
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keys[0]); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(indexKey(indexGraph, graph), nil); err != nil {
			return err
		}
		for _, k := range keys {
			if err := txn.Set(k, nil); err != nil {
				return err
			}
		}
		added = true
		return nil
	})
	return added, err
}

func (b *BadgerBackend) Remove(graph string, s, p, o rdf.Term) (int, error) {
	matches, err := b.Match(graph, s, p, o)
	if err != nil || len(matches) == 0 {
		return 0, err
	}
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, t := range matches {
		for _, k := range tripleKeys(graph, t) {
			if err := wb.Delete(k); err != nil {
				return 0, err
			}
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (b *BadgerBackend) Match(graph string, s, p, o rdf.Term) ([]rdf.Triple, error) {
	index, bound := scanPlan(s, p, o)
	// the trailing separator stops graph names and term keys from matching
	// longer ones; a fully bound key has none, so the filter below decides
	prefix := indexKey(index, graph, bound...)
	if len(bound) < 3 {
		prefix = append(prefix, keySep)
	}
	graphPrefixLen := len(indexKey(index, graph)) + 1

	var out []rdf.Triple
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			t, err := decodeIndexKey(index, key[graphPrefixLen:])
			if err != nil {
				return err
			}
			if s != nil && !rdf.Equal(s, t.S) || p != nil && !rdf.Equal(p, t.P) || o != nil && !rdf.Equal(o, t.O) {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	return out, err
}

// scanPlan picks the index whose key order puts the bound terms first.
func scanPlan(s, p, o rdf.Term) (byte, []string) {
	key := func(t rdf.Term) string {
		if lit, ok := t.(rdf.Literal); ok {
			return rdf.Key(normalizeTriple(rdf.Triple{O: lit}).O)
		}
		return rdf.Key(t)
	}
	switch {
	case s != nil && p != nil && o != nil:
		return indexSPO, []string{key(s), key(p), key(o)}
	case s != nil && p != nil:
		return indexSPO, []string{key(s), key(p)}
	case s != nil && o != nil:
		return indexOSP, []string{key(o), key(s)}
	case s != nil:
		return indexSPO, []string{key(s)}
	case p != nil && o != nil:
		return indexPOS, []string{key(p), key(o)}
	case p != nil:
		return indexPOS, []string{key(p)}
	case o != nil:
		return indexOSP, []string{key(o)}
	default:
		return indexSPO, nil
	}
}

func decodeIndexKey(index byte, rest []byte) (rdf.Triple, error) {
	parts := bytes.SplitN(rest, []byte{keySep}, 3)
	if len(parts) != 3 {
		return rdf.Triple{}, fmt.Errorf("malformed index key %q", rest)
	}
	terms := make([]rdf.Term, 3)
	for i, part := range parts {
		t, err := decodeKey(string(part))
		if err != nil {
			return rdf.Triple{}, err
		}
		terms[i] = t
	}
	var s, p, o rdf.Term
	switch index {
	case indexSPO:
		s, p, o = terms[0], terms[1], terms[2]
	case indexPOS:
		p, o, s = terms[0], terms[1], terms[2]
	case indexOSP:
		o, s, p = terms[0], terms[1], terms[2]
	}
	pred, ok := p.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("predicate %s is not an IRI", p)
	}
	return rdf.Triple{S: s, P: pred, O: o}, nil
}

func (b *BadgerBackend) CreateGraph(graph string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(indexKey(indexGraph, graph), nil)
	})
}

func (b *BadgerBackend) Graphs() ([]string, error) {
	prefix := []byte{indexGraph, keySep}
	var out []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			out = append(out, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (b *BadgerBackend) Close() error { return b.db.Close() }
