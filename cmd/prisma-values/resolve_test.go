package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spicyzboss/prisma-client-go/internal/testutil"
	"github.com/spicyzboss/prisma-client-go/prisma"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
	"github.com/spicyzboss/prisma-client-go/prisma/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedAuthor = `
- id: 1
  author: &ada {name: Ada, score: 2.50}
- id: 2
  author: *ada
`

const sharedAuthorJSON = `[{"id":1,"author":{"name":"Ada","score":2.5}},{"id":2,"author":{"name":"Ada","score":2.5}}]`

func TestRunResolveJSON(t *testing.T) {
	first := testutil.WriteFile(t, "authors.yaml", sharedAuthor)
	second := testutil.WriteFile(t, "count.yaml", "count: !bigint 3\n")

	var out, errOut bytes.Buffer
	cfg := &Config{Output: outputJSON, Color: colorNever}
	err := runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &errOut, []string{first, second})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, sharedAuthorJSON, lines[0])
	assert.Equal(t, `{"count":3}`, lines[1])
	assert.Empty(t, errOut.String())
}

func TestRunResolveVerboseReportsSharing(t *testing.T) {
	path := testutil.WriteFile(t, "authors.yaml", sharedAuthor)

	var out, errOut bytes.Buffer
	cfg := &Config{Output: outputJSON, Color: colorNever, Verbose: true}
	err := runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &errOut, []string{path})
	require.NoError(t, err)

	events := errOut.String()
	assert.Contains(t, events, "Copied shared Map (2 holders)")
	assert.Contains(t, events, "Reclaimed shared Map in place")
	assert.Contains(t, events, "1 refs reclaimed, 1 refs cloned")
}

func TestRunResolveTable(t *testing.T) {
	path := testutil.WriteFile(t, "users.yaml", "- {id: 1, role: !enum ADMIN}\n- {id: 2, role: !enum USER}\n")

	var out bytes.Buffer
	cfg := &Config{Output: outputTable, Color: colorNever}
	err := runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &out, []string{path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "ADMIN")
	assert.Contains(t, out.String(), "USER")
	assert.Contains(t, out.String(), "_2 rows_")
}

func TestRunResolveIndent(t *testing.T) {
	path := testutil.WriteFile(t, "one.yaml", "id: 1\n")

	var out bytes.Buffer
	cfg := &Config{Output: outputJSON, Indent: 2, Color: colorNever}
	err := runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &out, []string{path})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1\n}\n", out.String())
}

func TestRunResolveErrors(t *testing.T) {
	bad := testutil.WriteFile(t, "bad.yaml", "a: 1\na: 2\n")
	cfg := &Config{Output: outputJSON, Color: colorNever}

	var out bytes.Buffer
	err := runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &out, []string{bad})
	var ferr *fixture.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 2, ferr.Line)

	err = runResolve(context.Background(), cfg, testutil.NewTestLogger(t), &out, &out, []string{"missing.yaml"})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestResolveTreeReportsFault(t *testing.T) {
	tree := core.ListItem(core.ValueItem(core.JSONValue("{invalid")))

	_, err := resolveTree(prisma.NewResolver(), tree)
	var fe *prisma.FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, core.KindJSON, fe.Kind)
}

func TestRunDecode(t *testing.T) {
	cfg := &Config{Output: outputJSON, Color: colorNever}
	input := []byte(`{"a": 1.0, "b": [1, "x"], "a": null}`)

	var out bytes.Buffer
	require.NoError(t, runDecode(cfg, &out, input, "json"))
	assert.Equal(t, "Object\n{\"a\":1.0,\"b\":[1,\"x\"],\"a\":null}\n", out.String())

	out.Reset()
	require.NoError(t, runDecode(cfg, &out, input, "yaml"))
	assert.Contains(t, out.String(), "!object")

	// the YAML form loads back as the same value
	v, err := prisma.Decode(input)
	require.NoError(t, err)
	want, err := prisma.ToCore(v)
	require.NoError(t, err)
	got, err := fixture.ParseValue(out.Bytes())
	require.NoError(t, err)
	assert.True(t, core.Equal(want, got), "yaml:\n%s", out.String())

	assert.Error(t, runDecode(cfg, &out, input, "xml"))
	assert.ErrorIs(t, runDecode(cfg, &out, []byte(`1 2`), "json"), prisma.ErrTrailingData)
}

func TestRootCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	path := testutil.WriteFile(t, "authors.yaml", sharedAuthor)

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"resolve", "--color", "never", path})
	require.NoError(t, root.Execute())
	assert.Equal(t, sharedAuthorJSON+"\n", out.String())

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "prisma-values v"+Version)

	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"resolve"})
	assert.Error(t, root.Execute())
}
