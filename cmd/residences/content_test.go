package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/residences/internal/content"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestContentExport_BuiltIn(t *testing.T) {
	t.Setenv("RESIDENCES_CONTENT", "")

	out, err := execute(t, "content", "export")
	require.NoError(t, err)

	doc, err := content.Parse([]byte(out))
	require.NoError(t, err)

	builtin := content.Default()
	require.Len(t, doc.Sections, len(builtin.Sections))
	for i := range builtin.Sections {
		assert.Equal(t, builtin.Sections[i].ID, doc.Sections[i].ID)
		assert.Len(t, doc.Sections[i].Items, len(builtin.Sections[i].Items))
	}
}

func TestContentList_BuiltIn(t *testing.T) {
	t.Setenv("RESIDENCES_CONTENT", "")

	out, err := execute(t, "content", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#residences")
}
