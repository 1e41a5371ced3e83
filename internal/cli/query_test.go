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

const testFixtureYAML = `
default:
  - ["<http://example.org/alice>", "<http://example.org/name>", '"Alice"']
  - ["<http://example.org/alice>", "<http://example.org/age>", '"30"^^xsd:integer']
  - ["<http://example.org/bob>", "<http://example.org/name>", '"Bob"']
  - ["<http://example.org/bob>", "<http://example.org/age>", '"25"^^xsd:integer']
graphs:
  http://example.org/g1:
    - ["<http://example.org/alice>", "<http://example.org/email>", '"alice@example.org"']
`

const testQueryJSON = `{
	"where": {"type": "bgp", "patterns": [
		["?s", "<http://example.org/name>", "?name"]
	]},
	"project": ["name"],
	"orderBy": [{"expr": {"var": "name"}}]
}`

// writeTestFiles lays out a fixture and query file in a temp dir.
func writeTestFiles(t *testing.T) (dataPath, queryPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "data.yaml")
	queryPath = filepath.Join(dir, "query.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(testFixtureYAML), 0o644))
	require.NoError(t, os.WriteFile(queryPath, []byte(testQueryJSON), 0o644))
	return dataPath, queryPath
}

// runCommand executes the root command with args, capturing output.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func TestQueryCommand_TextOutput(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)

	stdout, _, err := runCommand(t, "query", queryPath, "--data", dataPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `?name="Alice"`)
	assert.Contains(t, stdout, `?name="Bob"`)
	assert.Contains(t, stdout, "2 row(s)")
}

func TestQueryCommand_JSONOutput(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)

	stdout, _, err := runCommand(t, "query", queryPath, "--data", dataPath, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestQueryCommand_MissingDataset(t *testing.T) {
	_, queryPath := writeTestFiles(t)

	_, _, err := runCommand(t, "query", queryPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_InvalidQueryFile(t *testing.T) {
	dataPath, _ := writeTestFiles(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"where": {"type": "nope"}}`), 0o644))

	_, _, err := runCommand(t, "query", bad, "--data", dataPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_InvalidFormatFlag(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)

	_, _, err := runCommand(t, "query", queryPath, "--data", dataPath, "--format", "xml")
	require.Error(t, err)
}

func TestExplainCommand_PrintsPlan(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)

	stdout, _, err := runCommand(t, "explain", queryPath, "--data", dataPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sort")
	assert.Contains(t, stdout, "project [?name]")
	assert.Contains(t, stdout, "triples patterns=1")
}

func TestLoadCommand_ImportsIntoSQLite(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	stdout, _, err := runCommand(t, "load", dataPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "imported 5 triple(s)")

	// The loaded database answers the same query.
	stdout, _, err = runCommand(t, "query", queryPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `?name="Alice"`)
	assert.Contains(t, stdout, "2 row(s)")
}

func TestQueryCommand_VerboseListsPatterns(t *testing.T) {
	dataPath, queryPath := writeTestFiles(t)

	_, stderr, err := runCommand(t, "query", queryPath, "--data", dataPath, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 pattern(s)")
	assert.Contains(t, stderr, "<http://example.org/name>")
}
