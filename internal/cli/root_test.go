package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `<http://example.org/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Person> .
<http://example.org/alice> <http://www.w3.org/2000/01/rdf-schema#label> "Alice" .
<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .
<http://example.org/bob> <http://www.w3.org/2000/01/rdf-schema#label> "Bob" .
<http://example.org/PersonShape> <http://www.w3.org/ns/shacl#targetClass> <http://example.org/Person> .
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.nt"), []byte(testData), 0o600))
	cfg := `default_graph: urn:x-graph:data
prefixes:
  ex: http://example.org/
graphs:
  - uri: urn:x-graph:data
    file: data.nt
logging:
  level: error
`
	path := filepath.Join(dir, "rdfgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rdfgraph", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"shapes", "values", "select", "tree", "graphs", "export"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for flag, short := range map[string]string{"config": "c", "graph": "g", "load": "l", "verbose": "v"} {
		f := cmd.PersistentFlags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, short, f.Shorthand)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "graphs", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShapes(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "--format", "json", "shapes", "ex:alice")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   []NodeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "http://example.org/PersonShape", resp.Data[0].URI)
}

func TestValues_PropertyPath(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "values", "ex:alice", "ex:knows/rdfs:label")
	require.NoError(t, err)
	assert.Contains(t, out, `"Bob"`)
}

func TestValues_Predicate(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "values", "http://example.org/alice", "ex:knows")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/bob (Bob)\n", out)
}

func TestSelect(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "select", "SELECT ?s WHERE { ?s a ex:Person }")
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.org/alice (Alice)")
}

func TestSelect_RequiresQuery(t *testing.T) {
	_, err := run(t, "select")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSelect_SyntaxErrorIsFailure(t *testing.T) {
	cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "select", "ASK { ?s ?p ?o }")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGraphs(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "graphs")
	require.NoError(t, err)
	assert.Contains(t, out, "* urn:x-graph:data")
}

func TestUnknownGraph(t *testing.T) {
	cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "--graph", "urn:x-graph:missing", "graphs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExport(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `<http://example.org/alice> <http://www.w3.org/2000/01/rdf-schema#label> "Alice" .`)
}

func TestTree(t *testing.T) {
	cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "tree", "ex:bob")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "Bob"`)
}

func TestLoadFlag(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "extra.nt")
	require.NoError(t, os.WriteFile(data, []byte(testData), 0o600))

	out, err := run(t, "--load", data, "values", "http://example.org/alice", "http://www.w3.org/2000/01/rdf-schema#label")
	require.NoError(t, err)
	assert.Contains(t, out, `"Alice"`)
}
