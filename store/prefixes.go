package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// PrefixMap maps qname prefixes to namespaces.
type PrefixMap struct {
	mu       sync.RWMutex
	prefixes map[string]string
}

// NewPrefixMap starts from the standard prefixes (rdf, rdfs, xsd, owl,
// skos, sh, dash) and adds extra on top.
func NewPrefixMap(extra map[string]string) *PrefixMap {
	m := &PrefixMap{prefixes: rdf.DefaultPrefixes()}
	for prefix, ns := range extra {
		m.prefixes[prefix] = ns
	}
	return m
}

// Set registers or replaces a prefix.
func (m *PrefixMap) Set(prefix, namespace string) {
	m.mu.Lock()
	m.prefixes[prefix] = namespace
	m.mu.Unlock()
}

// Namespace returns the namespace bound to prefix.
func (m *PrefixMap) Namespace(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.prefixes[prefix]
	return ns, ok
}

// All returns a copy of the mapping.
func (m *PrefixMap) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.prefixes))
	for k, v := range m.prefixes {
		out[k] = v
	}
	return out
}

// Expand turns "prefix:local" into a full IRI.
func (m *PrefixMap) Expand(qname string) (string, bool) {
	prefix, local, ok := rdf.SplitQName(qname)
	if !ok {
		return "", false
	}
	ns, ok := m.Namespace(prefix)
	if !ok {
		return "", false
	}
	return ns + local, true
}

// Abbreviate finds the longest namespace that prefixes iri and leaves a
// valid local name. Ties go to the alphabetically first prefix.
func (m *PrefixMap) Abbreviate(iri string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.prefixes))
	for prefix := range m.prefixes {
		names = append(names, prefix)
	}
	sort.Strings(names)

	best, bestLen := "", -1
	for _, prefix := range names {
		ns := m.prefixes[prefix]
		if ns == "" || !strings.HasPrefix(iri, ns) || len(ns) <= bestLen {
			continue
		}
		local := iri[len(ns):]
		if local != "" && !rdf.IsQNameLocal(local) {
			continue
		}
		best, bestLen = prefix+":"+local, len(ns)
	}
	return best, bestLen >= 0
}
