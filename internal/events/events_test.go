package events

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

func TestAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.bin")
	w := NewWriter(path)

	first := NewRecord("a.yaml")
	first.NodesBefore = 3
	first.NodesAfter = 8
	first.Iterations = 1
	first.Graph = &graph.Graph{Nodes: []*graph.Node{{Name: "x", Op: "Placeholder"}}}
	require.NoError(t, w.Append(first))

	second := NewRecord("b.yaml")
	second.Iterations = 2
	require.NoError(t, w.Append(second))

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, 8, records[0].NodesAfter)
	require.NotNil(t, records[0].Graph)
	assert.Equal(t, "x", records[0].Graph.Nodes[0].Name)

	assert.Equal(t, second.ID, records[1].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestReadAllMissingFile(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}
