// Package graphio reads and writes graph documents. Two encodings are
// supported: a YAML text format for authoring and inspection, and a
// msgpack binary format for fast round-trips.
package graphio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

// Format names a graph document encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatBinary Format = "binary"
)

// binaryVersion guards the msgpack frame layout.
const binaryVersion = 1

// binaryDoc is the on-disk frame of the binary format.
type binaryDoc struct {
	Version int          `msgpack:"version"`
	Graph   *graph.Graph `msgpack:"graph"`
}

// DetectFormat picks an encoding from a file extension, falling back to
// the given default.
func DetectFormat(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".bin", ".msgpack", ".gfr":
		return FormatBinary
	default:
		return fallback
	}
}

// Load reads a graph document from path, detecting the format from the
// extension.
func Load(path string) (*graph.Graph, error) {
	return LoadAs(path, DetectFormat(path, FormatYAML))
}

// LoadAs reads a graph document from path in the given format.
func LoadAs(path string, format Format) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph document %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatYAML:
		return DecodeYAML(f)
	case FormatBinary:
		return DecodeBinary(f)
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
}

// Save writes a graph document to path, detecting the format from the
// extension.
func Save(path string, g *graph.Graph) error {
	return SaveAs(path, g, DetectFormat(path, FormatYAML))
}

// SaveAs writes a graph document to path in the given format.
func SaveAs(path string, g *graph.Graph, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph document %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatYAML:
		return EncodeYAML(f, g)
	case FormatBinary:
		return EncodeBinary(f, g)
	default:
		return fmt.Errorf("unknown graph format %q", format)
	}
}

// DecodeYAML reads a YAML graph document.
func DecodeYAML(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}
	var g graph.Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph document: %w", err)
	}
	return &g, nil
}

// EncodeYAML writes a YAML graph document.
func EncodeYAML(w io.Writer, g *graph.Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("failed to encode graph document: %w", err)
	}
	return enc.Close()
}

// DecodeBinary reads a msgpack graph document.
func DecodeBinary(r io.Reader) (*graph.Graph, error) {
	var doc binaryDoc
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	if doc.Version != binaryVersion {
		return nil, fmt.Errorf("unsupported graph document version %d", doc.Version)
	}
	if doc.Graph == nil {
		return nil, fmt.Errorf("graph document has no graph payload")
	}
	return doc.Graph, nil
}

// EncodeBinary writes a msgpack graph document.
func EncodeBinary(w io.Writer, g *graph.Graph) error {
	doc := binaryDoc{Version: binaryVersion, Graph: g}
	if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode graph document: %w", err)
	}
	return nil
}
