package graphio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

func sampleGraph() *graph.Graph {
	call := &graph.Node{Name: "f1", Op: "F", Input: []string{"a"}}
	call.SetAttr("T", graph.TypeAttr(graph.DTFloat))
	return &graph.Graph{
		Nodes: []*graph.Node{
			{Name: "a", Op: "Placeholder"},
			call,
			{Name: "b", Op: "Consumer", Input: []string{"f1", "^a"}},
		},
		Versions: graph.Versions{Producer: 12},
		Functions: []*graph.FunctionDef{{
			Signature: graph.Signature{
				Name:       "F",
				InputArgs:  []graph.ArgDef{{Name: "x", TypeAttr: "T"}},
				OutputArgs: []graph.ArgDef{{Name: "y", TypeAttr: "T"}},
			},
			Body: []*graph.Node{{Name: "y", Op: graph.OpRetval, Input: []string{"x"}}},
		}},
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, sampleGraph()))

	got, err := DecodeYAML(&buf)
	require.NoError(t, err)

	assert.Equal(t, sampleGraph(), got)
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, sampleGraph()))

	got, err := DecodeBinary(&buf)
	require.NoError(t, err)

	assert.Equal(t, sampleGraph(), got)
}

func TestDecodeBinaryRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&binaryDoc{Version: binaryVersion + 1, Graph: sampleGraph()}))

	// A well-formed frame whose version is one past the supported one.
	_, err := DecodeBinary(&buf)
	assert.ErrorContains(t, err, "unsupported graph document version")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"g.yaml", FormatYAML},
		{"g.yml", FormatYAML},
		{"g.bin", FormatBinary},
		{"g.msgpack", FormatBinary},
		{"g.gfr", FormatBinary},
		{"g.txt", FormatYAML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.path, FormatYAML), tt.path)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")

	require.NoError(t, Save(path, sampleGraph()))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleGraph(), got)
}
