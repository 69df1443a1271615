// Package document defines the provenance document model shared by every
// other component: the document record itself, the serialization format
// enumeration with its content-type and file-extension tables, name
// resolution (uniqueness, reserved words, unique-name generation), and the
// slug transform used for routing.
package document

import (
	"encoding/json"
	"time"
)

// Graph is the canonical structured (PROV-JSON) representation of a
// provenance document. The top level maps section names ("entity",
// "activity", "agent", "bundle", "prefix", and the relation sections) to
// their raw JSON content. The graph is carried opaquely; only structural
// JSON decoding is performed, never semantic validation.
type Graph map[string]json.RawMessage

// Clone returns a shallow copy of the graph map. The raw section values are
// shared, which is safe because they are never mutated in place.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	clone := make(Graph, len(g))
	for key, value := range g {
		clone[key] = value
	}
	return clone
}

// Document is a provenance record with a stable name, a structured graph
// form, and a textual serialized form in one of several notations.
//
// The name doubles as the document's identity key: it is unique among all
// documents the session knows about (open tabs and the persisted library).
// After a successful translation, Graph and SourceText describe the same
// provenance; between an edit and the translation result one of the two is
// transiently ahead of the other (see the session package).
type Document struct {
	// Name uniquely identifies the document.
	Name string

	// UpdatedAt is bumped on every content- or metadata-mutating edit.
	UpdatedAt time.Time

	// Format is the serialization format of SourceText.
	Format Format

	// SourceText is the textual representation in Format.
	SourceText string

	// Graph is the canonical structured representation.
	Graph Graph

	// VizSettings is an opaque settings blob owned by the visualizer
	// widget. It is round-tripped through persistence without
	// interpretation.
	VizSettings json.RawMessage
}

// Clone returns a copy of the document safe to hand to other collections.
func (d Document) Clone() Document {
	clone := d
	clone.Graph = d.Graph.Clone()
	if d.VizSettings != nil {
		clone.VizSettings = append(json.RawMessage(nil), d.VizSettings...)
	}
	return clone
}
