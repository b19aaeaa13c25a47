// Package sink serializes built diagrams for downstream consumers.
//
// The JSON layout (nodes, links, max_teams and their field names) is fixed by
// the existing d3 renderer; see the sankey package types for the contract.
// Output is UTF-8 with HTML escaping disabled, so Cyrillic team names and
// placeholder labels survive as readable text rather than \u escapes.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mkazantsev/rosterflow/pkg/sankey"
)

// WriteJSON encodes a diagram as indented JSON and writes it to w.
func WriteJSON(d *sankey.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the diagram's serialized form as bytes.
func MarshalJSON(d *sankey.Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a diagram to a JSON file at path and returns the number
// of bytes written.
func ExportJSON(d *sankey.Diagram, path string) (int, error) {
	data, err := MarshalJSON(d)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(data), nil
}

// ReadJSON decodes a diagram from r. Used by the serve command to publish a
// document produced by an earlier build.
func ReadJSON(r io.Reader) (*sankey.Diagram, error) {
	var d sankey.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &d, nil
}

// ImportJSON reads a diagram from a JSON file at path.
func ImportJSON(path string) (*sankey.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
