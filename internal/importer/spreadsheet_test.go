package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileCSV(t *testing.T) {
	csv := "Product SKU, Quantity \nSKU-1,3\nSKU-2\n"

	rows, err := ParseFile("upload.csv", strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Headers are trimmed
	assert.Equal(t, "SKU-1", rows[0]["Product SKU"])
	assert.Equal(t, "3", rows[0]["Quantity"])
	// Ragged row: missing cells are simply absent
	assert.Equal(t, "SKU-2", rows[1]["Product SKU"])
	assert.Equal(t, "", rows[1]["Quantity"])
}

func TestParseFileUnknownExtensionTriedAsCSV(t *testing.T) {
	rows, err := ParseFile("upload.txt", strings.NewReader("SKU\nA\n"))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["SKU"])
}

func TestParseFileHeaderOnly(t *testing.T) {
	rows, err := ParseFile("upload.csv", strings.NewReader("SKU,Quantity\n"))

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFileBadXLSX(t *testing.T) {
	_, err := ParseFile("upload.xlsx", strings.NewReader("not a zip archive"))

	assert.Error(t, err)
}
