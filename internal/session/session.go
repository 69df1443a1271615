// Package session owns the multi-document editing state: which documents
// are open, which is active, and how edits to the graph and text
// representations propagate.
//
// The session is deliberately synchronous and single-owner — it is driven
// entirely from the UI event loop. Operations that need the translation
// service do not call it; they return a [Request] descriptor tagged with
// the document's name and edit version, the caller executes it
// asynchronously, and the tagged [Result] re-enters through [Session.Apply]
// which discards anything stale. This is what guarantees that for a single
// document the most recent local edit always wins, regardless of response
// arrival order.
//
// Collections are replaced wholesale on every mutation (copy-on-write), so
// a renderer holding a slice from an earlier call never observes a
// half-updated list.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/logging"
	"github.com/prov-studio/prov-studio/internal/store"
)

// SyncState tracks which representation of a document is ahead of the
// other while a translation is outstanding.
type SyncState int

const (
	// Synced: graph and source text describe the same provenance.
	Synced SyncState = iota
	// GraphAhead: the graph was edited; source text regeneration pending.
	GraphAhead
	// TextAhead: the text was edited; graph regeneration pending.
	TextAhead
	// Failed: the last translation failed; the last-good pairing is
	// retained and the operation may be retried.
	Failed
)

// Direction of a translation request.
type Direction int

const (
	// ToText regenerates source text from the graph.
	ToText Direction = iota
	// ToGraph regenerates the graph from source text.
	ToGraph
)

// OpenDocument pairs a document with its per-tab editing state.
type OpenDocument struct {
	Doc document.Document

	// State is the document's position in the sync state machine.
	State SyncState

	// Version increases on every local edit. Translation responses carry
	// the version they were issued against; mismatches are discarded.
	Version uint64

	// PendingText holds text-edit keystrokes that have not been committed
	// yet. The user's input is never lost, even across failed
	// translations.
	PendingText string

	// SavingError is the non-blocking "could not save" indicator raised
	// when a live text edit fails to translate.
	SavingError bool

	// RetryFormat carries the target of a failed format change so retry
	// can re-invoke with identical arguments. Empty when no format change
	// is pending retry.
	RetryFormat document.Format
}

// DisplayText returns what the editor pane should show: uncommitted
// keystrokes take precedence over the last committed source text.
func (o OpenDocument) DisplayText() string {
	if o.State == TextAhead || (o.State == Failed && o.PendingText != "") {
		return o.PendingText
	}
	return o.Doc.SourceText
}

// Request describes a translation the caller should execute
// asynchronously. Name and Version identify the document state the request
// was issued against; Apply uses them for staleness detection.
type Request struct {
	Name    string
	Version uint64

	Direction Direction

	// Format is the source format for ToGraph requests and the target
	// format for ToText requests.
	Format document.Format

	// Text is the input for ToGraph requests.
	Text string

	// Graph is the input for ToText requests.
	Graph document.Graph

	// FormatChange marks a ToText request issued by ChangeFormat; on
	// success the document's format switches atomically with its text.
	FormatChange bool
}

// Result carries a finished translation back into the session.
type Result struct {
	Req   Request
	Graph document.Graph // ToGraph success payload
	Text  string         // ToText success payload
	Err   error
}

// Outcome reports what Apply did with a result.
type Outcome int

const (
	// OutcomeStale: the result no longer matches current state and was
	// discarded.
	OutcomeStale Outcome = iota
	// OutcomeApplied: the result was committed.
	OutcomeApplied
	// OutcomeFailed: the translation failed and the failure was recorded
	// against current state.
	OutcomeFailed
)

// Validation errors surfaced by Rename and Create.
var (
	ErrNameEmpty    = errors.New("document name is required")
	ErrNameReserved = errors.New("document name is reserved")
	ErrNameTaken    = errors.New("document name is already in use")
	ErrNoDocument   = errors.New("no document at index")
)

// Session is the single authority over open documents and the persisted
// library. It is not safe for concurrent use; drive it from one event
// loop.
type Session struct {
	ctx   context.Context
	store store.Store
	log   *slog.Logger
	now   func() time.Time

	open    []OpenDocument
	current int
	local   []document.Document
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New builds a session over the given store and loads the persisted
// library. A load failure degrades to an empty library.
func New(ctx context.Context, st store.Store, opts ...Option) *Session {
	s := &Session{
		ctx:     ctx,
		store:   st,
		log:     logging.New("session"),
		now:     time.Now,
		current: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	local, err := st.Load(ctx)
	if err != nil {
		s.log.Warn("load document library", "error", err)
		local = nil
	}
	s.local = local
	return s
}

// Documents returns a copy of the open-document list (the tab strip).
func (s *Session) Documents() []OpenDocument {
	out := make([]OpenDocument, len(s.open))
	copy(out, s.open)
	return out
}

// Local returns a copy of the persisted library.
func (s *Session) Local() []document.Document {
	out := make([]document.Document, len(s.local))
	copy(out, s.local)
	return out
}

// Len returns the number of open documents.
func (s *Session) Len() int { return len(s.open) }

// CurrentIndex returns the active tab index, -1 when none is active.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the active open document, if any.
func (s *Session) Current() (OpenDocument, bool) {
	if s.current < 0 || s.current >= len(s.open) {
		return OpenDocument{}, false
	}
	return s.open[s.current], true
}

// At returns the open document at index i.
func (s *Session) At(i int) (OpenDocument, bool) {
	if i < 0 || i >= len(s.open) {
		return OpenDocument{}, false
	}
	return s.open[i], true
}

// Open makes doc the active document. If a document with the same name is
// already open it is activated instead of duplicated; otherwise doc is
// appended to the tab strip. Either way the document is upserted into the
// persisted library by name.
func (s *Session) Open(doc document.Document) int {
	s.upsertLocal(doc)
	for i, existing := range s.open {
		if existing.Doc.Name == doc.Name {
			s.current = i
			s.persist()
			return i
		}
	}
	next := make([]OpenDocument, len(s.open), len(s.open)+1)
	copy(next, s.open)
	next = append(next, OpenDocument{Doc: doc.Clone(), State: Synced})
	s.open = next
	s.current = len(next) - 1
	s.persist()
	return s.current
}

// SwitchTo activates the tab at index i.
func (s *Session) SwitchTo(i int) bool {
	if i < 0 || i >= len(s.open) {
		return false
	}
	s.current = i
	return true
}

// Close removes the tab at index i. The active index follows the rules:
// closing the active tab keeps the same position (or the new last slot);
// closing a tab before the active one shifts the active index down; an
// emptied strip deactivates entirely.
func (s *Session) Close(i int) bool {
	if i < 0 || i >= len(s.open) {
		return false
	}
	next := make([]OpenDocument, 0, len(s.open)-1)
	next = append(next, s.open[:i]...)
	next = append(next, s.open[i+1:]...)
	s.open = next

	switch {
	case len(next) == 0:
		s.current = -1
	case i == s.current:
		if s.current > len(next)-1 {
			s.current = len(next) - 1
		}
	case i < s.current:
		s.current--
	}
	return true
}

// Rename validates and applies a new name for the tab at index i. The
// persisted-library entry is resolved through the document's current
// session identity, never a stale captured name. Renaming a document to
// its own current name is an allowed no-op.
func (s *Session) Rename(i int, newName string) error {
	if i < 0 || i >= len(s.open) {
		return ErrNoDocument
	}
	prior := s.open[i].Doc.Name
	if newName == prior {
		return nil
	}
	if newName == "" {
		return ErrNameEmpty
	}
	if document.NameReserved(newName) {
		return ErrNameReserved
	}
	if !document.NameUnique(newName, s.local) {
		return ErrNameTaken
	}

	o := s.open[i]
	o.Doc = o.Doc.Clone()
	o.Doc.Name = newName
	o.Doc.UpdatedAt = s.now()
	o.Version++
	s.open = replaceOpen(s.open, i, o)

	s.renameLocal(prior, o.Doc)
	s.persist()
	return nil
}

// Delete removes the named document from the open tabs and the persisted
// library.
func (s *Session) Delete(name string) {
	for i, o := range s.open {
		if o.Doc.Name == name {
			s.Close(i)
			break
		}
	}
	next := make([]document.Document, 0, len(s.local))
	for _, doc := range s.local {
		if doc.Name != name {
			next = append(next, doc)
		}
	}
	s.local = next
	s.persist()
}

// UpdateFromGraphEdit applies a visual-side edit: the graph is the source
// of truth and is committed immediately; the returned request regenerates
// the source text in the document's current format.
func (s *Session) UpdateFromGraphEdit(i int, graph document.Graph) (Request, bool) {
	if i < 0 || i >= len(s.open) {
		return Request{}, false
	}
	o := s.open[i]
	o.Doc = o.Doc.Clone()
	o.Doc.Graph = graph.Clone()
	o.Doc.UpdatedAt = s.now()
	o.Version++
	o.State = GraphAhead
	s.open = replaceOpen(s.open, i, o)
	s.upsertLocal(o.Doc)
	s.persist()

	return Request{
		Name:      o.Doc.Name,
		Version:   o.Version,
		Direction: ToText,
		Format:    o.Doc.Format,
		Graph:     o.Doc.Graph,
	}, true
}

// SetPendingText records a text-side keystroke. Nothing is committed: the
// graph, source text, and updatedAt change only when the translation for
// this version succeeds. Returns the new edit version for debounce
// bookkeeping.
func (s *Session) SetPendingText(i int, text string) (uint64, bool) {
	if i < 0 || i >= len(s.open) {
		return 0, false
	}
	o := s.open[i]
	o.PendingText = text
	o.Version++
	o.State = TextAhead
	s.open = replaceOpen(s.open, i, o)
	return o.Version, true
}

// TextRequest builds the translation request for the pending text of the
// tab at index i. Issued by the caller after the debounce window closes.
func (s *Session) TextRequest(i int) (Request, bool) {
	if i < 0 || i >= len(s.open) {
		return Request{}, false
	}
	o := s.open[i]
	if o.State != TextAhead {
		return Request{}, false
	}
	return Request{
		Name:      o.Doc.Name,
		Version:   o.Version,
		Direction: ToGraph,
		Format:    o.Doc.Format,
		Text:      o.PendingText,
	}, true
}

// ChangeFormat builds the request that re-serializes the graph of the tab
// at index i into a new format. The document is not touched until the
// translation succeeds; on failure the target format is retained for the
// retry affordance. The version advances when the request is issued, so
// of two overlapping format changes only the later one can land.
func (s *Session) ChangeFormat(i int, format document.Format) (Request, bool) {
	if i < 0 || i >= len(s.open) {
		return Request{}, false
	}
	o := s.open[i]
	o.Version++
	s.open = replaceOpen(s.open, i, o)
	return Request{
		Name:         o.Doc.Name,
		Version:      o.Version,
		Direction:    ToText,
		Format:       format,
		Graph:        o.Doc.Graph,
		FormatChange: true,
	}, true
}

// UpdateVizSettings stores the visualizer's opaque settings blob for the
// tab at index i and persists it with the document.
func (s *Session) UpdateVizSettings(i int, settings []byte) bool {
	if i < 0 || i >= len(s.open) {
		return false
	}
	o := s.open[i]
	o.Doc = o.Doc.Clone()
	o.Doc.VizSettings = append([]byte(nil), settings...)
	o.Doc.UpdatedAt = s.now()
	s.open = replaceOpen(s.open, i, o)
	s.upsertLocal(o.Doc)
	s.persist()
	return true
}

// Apply reconciles a finished translation against current state. A result
// whose document is gone, renamed, or edited past the request's version is
// discarded. Failures never disturb the last-known-good graph/text
// pairing.
func (s *Session) Apply(res Result) Outcome {
	i := s.indexOf(res.Req.Name)
	if i == -1 {
		return OutcomeStale
	}
	o := s.open[i]
	if o.Version != res.Req.Version {
		return OutcomeStale
	}

	if res.Err != nil {
		o.State = Failed
		if res.Req.Direction == ToGraph {
			o.SavingError = true
		}
		if res.Req.FormatChange {
			o.RetryFormat = res.Req.Format
		}
		s.open = replaceOpen(s.open, i, o)
		return OutcomeFailed
	}

	switch {
	case res.Req.Direction == ToGraph:
		// Text edit confirmed: commit text and regenerated graph together.
		o.Doc = o.Doc.Clone()
		o.Doc.SourceText = res.Req.Text
		o.Doc.Graph = res.Graph.Clone()
		o.Doc.UpdatedAt = s.now()
		o.PendingText = ""
		o.SavingError = false
		o.State = Synced
	case res.Req.FormatChange:
		o.Doc = o.Doc.Clone()
		o.Doc.Format = res.Req.Format
		o.Doc.SourceText = res.Text
		o.Doc.UpdatedAt = s.now()
		o.RetryFormat = ""
		o.State = Synced
	default:
		// Graph edit confirmed: the graph was committed optimistically,
		// only the regenerated text lands now.
		o.Doc = o.Doc.Clone()
		o.Doc.SourceText = res.Text
		o.State = Synced
	}
	s.open = replaceOpen(s.open, i, o)
	s.upsertLocal(o.Doc)
	s.persist()
	return OutcomeApplied
}

// ClearSavingError drops the non-blocking save-failure indicator, e.g.
// while an explicit retry of the failed translation is in flight.
func (s *Session) ClearSavingError(i int) {
	if i < 0 || i >= len(s.open) {
		return
	}
	o := s.open[i]
	o.SavingError = false
	s.open = replaceOpen(s.open, i, o)
}

// ReloadLocal re-reads the persisted library, picking up external changes
// detected by the watcher. Open tabs are left untouched so unsaved edits
// are never clobbered.
func (s *Session) ReloadLocal() {
	local, err := s.store.Load(s.ctx)
	if err != nil {
		s.log.Warn("reload document library", "error", err)
		return
	}
	s.local = local
}

func (s *Session) indexOf(name string) int {
	for i, o := range s.open {
		if o.Doc.Name == name {
			return i
		}
	}
	return -1
}

// upsertLocal replaces the library entry with doc's name, or appends it.
func (s *Session) upsertLocal(doc document.Document) {
	next := make([]document.Document, len(s.local))
	copy(next, s.local)
	for i, existing := range next {
		if existing.Name == doc.Name {
			next[i] = doc.Clone()
			s.local = next
			return
		}
	}
	s.local = append(next, doc.Clone())
}

// renameLocal rewrites the library entry that carried the prior name. If
// the entry vanished (external change), the renamed document is appended
// instead of failing.
func (s *Session) renameLocal(prior string, doc document.Document) {
	next := make([]document.Document, len(s.local))
	copy(next, s.local)
	for i, existing := range next {
		if existing.Name == prior {
			next[i] = doc.Clone()
			s.local = next
			return
		}
	}
	s.local = append(next, doc.Clone())
}

func (s *Session) persist() {
	if err := s.store.Save(s.ctx, s.local); err != nil {
		s.log.Warn("persist document library", "error", err)
	}
}

func replaceOpen(list []OpenDocument, i int, o OpenDocument) []OpenDocument {
	out := make([]OpenDocument, len(list))
	copy(out, list)
	out[i] = o
	return out
}
