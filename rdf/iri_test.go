package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIRI(t *testing.T) {
	valid := []string{
		"http://example.org/a",
		"urn:isbn:0451450523",
		"mailto:someone@example.org",
		"_:b1",
	}
	for _, iri := range valid {
		assert.NoError(t, ValidateIRI(iri), iri)
	}

	invalid := []string{
		"",
		"_:",
		"relative/path",
		"http://example.org/a b",
		"http://example.org/<a>",
		"http://example.org/\"q\"",
		"http://example.org/\x01",
	}
	for _, iri := range invalid {
		assert.Error(t, ValidateIRI(iri), "%q", iri)
	}
}

func TestSplitIRI(t *testing.T) {
	tests := []struct {
		iri, ns, local string
	}{
		{"http://example.org/ns#name", "http://example.org/ns#", "name"},
		{"http://example.org/people/alice", "http://example.org/people/", "alice"},
		{"urn:isbn:123", "urn:isbn:", "123"},
		{"http://example.org/", "http://example.org/", ""},
		{"plain", "", "plain"},
	}
	for _, tt := range tests {
		ns, local := SplitIRI(tt.iri)
		assert.Equal(t, tt.ns, ns, tt.iri)
		assert.Equal(t, tt.local, local, tt.iri)
	}
}

func TestTermFromIdentity(t *testing.T) {
	assert.Equal(t, BlankNode{ID: "x"}, TermFromIdentity("_:x"))
	assert.Equal(t, IRI{Value: ex + "x"}, TermFromIdentity(ex+"x"))
}

func TestSplitQName(t *testing.T) {
	tests := []struct {
		in            string
		prefix, local string
		ok            bool
	}{
		{"ex:Person", "ex", "Person", true},
		{":local", "", "local", true},
		{"ex:", "ex", "", true},
		{"dc-terms.v1:title", "dc-terms.v1", "title", true},
		{"http://example.org/a", "", "", false},
		{"noColon", "", "", false},
		{"e x:a", "", "", false},
		{"ex:1a", "", "", false},
		{"ex:a.", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			prefix, local, ok := SplitQName(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.local, local)
		})
	}
}

func TestIsQNameLocal(t *testing.T) {
	for _, v := range []string{"a", "_x-1", "a.b", "Person2"} {
		assert.True(t, IsQNameLocal(v), v)
	}
	for _, v := range []string{"", "1a", "-a", "a.", "a b"} {
		assert.False(t, IsQNameLocal(v), v)
	}
}
