package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoknoesis/rdf-graph/rdf"
)

func TestPrefixMap(t *testing.T) {
	m := NewPrefixMap(map[string]string{"ex": ex, "exv": ex + "vocab/"})

	ns, ok := m.Namespace("rdfs")
	assert.True(t, ok)
	assert.Equal(t, rdf.RDFSNamespace, ns)

	full, ok := m.Expand("ex:alice")
	assert.True(t, ok)
	assert.Equal(t, ex+"alice", full)

	full, ok = m.Expand("ex:")
	assert.True(t, ok)
	assert.Equal(t, ex, full)

	for _, bad := range []string{"missing:x", "http://example.org/a", "noColon"} {
		_, ok = m.Expand(bad)
		assert.False(t, ok, bad)
	}

	q, ok := m.Abbreviate(ex + "vocab/term")
	assert.True(t, ok)
	assert.Equal(t, "exv:term", q, "the longest namespace wins")

	q, ok = m.Abbreviate(ex + "alice")
	assert.True(t, ok)
	assert.Equal(t, "ex:alice", q)

	_, ok = m.Abbreviate(ex + "has space")
	assert.False(t, ok)
	_, ok = m.Abbreviate("urn:other:x")
	assert.False(t, ok)

	m.Set("ex", "http://changed.org/")
	full, _ = m.Expand("ex:a")
	assert.Equal(t, "http://changed.org/a", full)

	all := m.All()
	all["ex"] = "mutated"
	ns, _ = m.Namespace("ex")
	assert.Equal(t, "http://changed.org/", ns, "All returns a copy")
}
