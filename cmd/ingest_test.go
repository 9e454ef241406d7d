package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaYAML = `
name: products
fields:
  - name: title
    type: fulltext
  - name: price
    type: numeric
`

const testDocsNDJSON = `
{"key": "d1", "fields": {"title": "red widget", "price": "9"}}
{"key": "d2", "fields": {"title": "blue widget", "price": "19"}}
{"key": "d3", "fields": {"title": "green gadget", "price": "29"}}
`

func TestSplitKeys(t *testing.T) {
	assert.Nil(t, splitKeys(""))
	assert.Nil(t, splitKeys("   "))
	assert.Equal(t, []string{"a", "b"}, splitKeys("a, b"))
	assert.Equal(t, []string{"a", "b", "c"}, splitKeys("a,b,,c"))
}

func TestIngestCmdDefinition(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
	assert.NotNil(t, ingestCmd.Flags().Lookup("schema"))
	assert.NotNil(t, ingestCmd.Flags().Lookup("docs"))
	assert.NotNil(t, ingestCmd.Flags().Lookup("delete"))
}

func TestRunIngestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ingestSchemaPath = writeTempFile(t, dir, "schema.yaml", testSchemaYAML)
	ingestDocsPath = writeTempFile(t, dir, "docs.ndjson", testDocsNDJSON)
	ingestDelete = "d2"
	ingestVerbose = false

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runIngest(cmd, nil))

	output := out.String()
	assert.Contains(t, output, "ingested 3 documents")
	assert.Contains(t, output, "deleted 1")
	assert.Contains(t, output, "live documents:     2")
	assert.Contains(t, output, "distinct terms:")
}

func TestRunIngestMissingSchema(t *testing.T) {
	ingestSchemaPath = filepath.Join(t.TempDir(), "missing.yaml")
	ingestDocsPath = writeTempFile(t, t.TempDir(), "docs.ndjson", testDocsNDJSON)
	ingestDelete = ""

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	assert.Error(t, runIngest(cmd, nil))
}
