// Package store persists the local document library.
//
// The library is a flat collection of documents keyed by name. It is stored
// as a single JSON-encoded array under one key (a file path or a Redis
// key), matching the session's whole-collection replacement strategy: every
// save rewrites the full library.
//
// Load is deliberately forgiving: a missing key yields an empty library, a
// corrupt payload yields an empty library, and individually malformed
// records are filtered out rather than failing the whole load. Losing local
// state degrades the experience; crashing the application would be worse.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/logging"
)

var storeLog = logging.New("store")

// Store loads and saves the persisted document library.
type Store interface {
	Load(ctx context.Context) ([]document.Document, error)
	Save(ctx context.Context, docs []document.Document) error
}

// record is the on-disk JSON representation of one document. UpdatedAt is
// serialized as an RFC 3339 string.
type record struct {
	Name        string          `json:"name"`
	UpdatedAt   string          `json:"updatedAt"`
	Format      string          `json:"sourceFormat"`
	SourceText  string          `json:"sourceText"`
	Graph       document.Graph  `json:"graph,omitempty"`
	VizSettings json.RawMessage `json:"visualizationSettings,omitempty"`
}

// encodeLibrary serializes the library for storage.
func encodeLibrary(docs []document.Document) ([]byte, error) {
	records := make([]record, len(docs))
	for i, doc := range docs {
		records[i] = record{
			Name:        doc.Name,
			UpdatedAt:   doc.UpdatedAt.UTC().Format(time.RFC3339),
			Format:      string(doc.Format),
			SourceText:  doc.SourceText,
			Graph:       doc.Graph,
			VizSettings: doc.VizSettings,
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

// decodeLibrary deserializes a stored library, dropping records that fail
// structural validation. A payload that is not a JSON array at all returns
// an empty library; per-record problems discard only that record.
func decodeLibrary(data []byte) []document.Document {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		storeLog.Warn("discarding corrupt document library", "error", err)
		return nil
	}

	docs := make([]document.Document, 0, len(records))
	for _, rec := range records {
		doc, ok := decodeRecord(rec)
		if !ok {
			storeLog.Warn("filtered malformed library record", "name", rec.Name, "format", rec.Format)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// decodeRecord validates one stored record. Name, format, and source text
// are required; an unparseable timestamp falls back to the zero time rather
// than invalidating the record.
func decodeRecord(rec record) (document.Document, bool) {
	if rec.Name == "" || rec.SourceText == "" {
		return document.Document{}, false
	}
	format := document.Format(rec.Format)
	if !format.Valid() {
		return document.Document{}, false
	}

	updatedAt, err := time.Parse(time.RFC3339, rec.UpdatedAt)
	if err != nil {
		updatedAt = time.Time{}
	}

	return document.Document{
		Name:        rec.Name,
		UpdatedAt:   updatedAt,
		Format:      format,
		SourceText:  rec.SourceText,
		Graph:       rec.Graph,
		VizSettings: rec.VizSettings,
	}, true
}

// MemStore is an in-memory Store used in tests and as a fallback when no
// durable backend is configured.
type MemStore struct {
	docs []document.Document
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the last saved library.
func (s *MemStore) Load(_ context.Context) ([]document.Document, error) {
	out := make([]document.Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Save replaces the library.
func (s *MemStore) Save(_ context.Context, docs []document.Document) error {
	s.docs = make([]document.Document, len(docs))
	copy(s.docs, docs)
	return nil
}
