package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSchemaParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "schema.yaml", `
name: products
fields:
  - name: title
    type: fulltext
    sortable: true
  - name: price
    type: numeric
  - name: color
    type: tag
    sep: ","
`)

	spec, err := loadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "products", spec.Name)
	assert.Equal(t, 3, spec.FieldCount())

	title, ok := spec.FieldByName("title")
	require.True(t, ok)
	assert.True(t, title.Sortable())

	color, ok := spec.FieldByName("color")
	require.True(t, ok)
	assert.Equal(t, byte(','), color.TagSep)
}

func TestLoadSchemaDefaultsNameWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "schema.yaml", `
fields:
  - name: title
    type: fulltext
`)

	spec, err := loadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "ftidx", spec.Name)
}

func TestLoadSchemaRejectsUnknownFieldType(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "schema.yaml", `
fields:
  - name: title
    type: bogus
`)

	_, err := loadSchema(path)
	assert.Error(t, err)
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := loadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
