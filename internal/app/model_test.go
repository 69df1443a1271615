package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/session"
	"github.com/prov-studio/prov-studio/internal/store"
	"github.com/prov-studio/prov-studio/internal/translate"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	sess := session.New(context.Background(), store.NewMemStore())
	m := New(sess, translate.New(translate.DefaultServiceURL), "", "")
	m.width = 120
	m.height = 40
	m.layout.Resize(120)
	return m
}

func openDocs(t *testing.T, m *Model, names ...string) {
	t.Helper()
	for _, name := range names {
		m.session.Open(document.NewExample(name, time.Now()))
	}
	m.syncActiveDocument()
}

func TestSwitchTabWraps(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "one", "two", "three")

	m.switchTab(1)
	if m.session.CurrentIndex() != 0 {
		t.Fatalf("current = %d, want wrap to 0", m.session.CurrentIndex())
	}
	m.switchTab(-1)
	if m.session.CurrentIndex() != 2 {
		t.Fatalf("current = %d, want wrap back to 2", m.session.CurrentIndex())
	}
}

func TestCloseCurrentUpdatesPath(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "one", "two")

	m.closeCurrent()
	if m.path != "/one" {
		t.Fatalf("path = %q, want /one", m.path)
	}
	m.closeCurrent()
	if m.path != "/" {
		t.Fatalf("path = %q, want / after last close", m.path)
	}
}

func TestNavigatePrecedence(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "Report", "Findings")
	extra := document.NewExample("Archive", time.Now())
	m.session.Open(extra)
	m.session.Close(2) // leave Archive in the library only
	m.session.SwitchTo(0)
	m.syncActiveDocument()

	m.navigate("/Findings")
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("current = %d, want the open Findings tab", m.session.CurrentIndex())
	}

	m.navigate("/Archive")
	cur, ok := m.session.Current()
	if !ok || cur.Doc.Name != "Archive" {
		t.Fatal("navigating to a library document must open it")
	}

	before := m.session.CurrentIndex()
	m.navigate("/missing")
	if m.session.CurrentIndex() != before {
		t.Fatal("unknown slug must not change the active document")
	}
	if m.path == "/missing" {
		t.Fatalf("path = %q, unknown slug must not become the path", m.path)
	}
}

func TestStaleDebounceTickIssuesNothing(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "alpha")

	m.editor.SetValue("edit A")
	m.noteTextEdit()
	first := m.debounce

	m.editor.SetValue("edit B")
	m.noteTextEdit()

	if cmd := m.handleTranslateTick(translateTickMsg(first)); cmd != nil {
		t.Fatal("a superseded debounce tick must not issue a translation")
	}
	if cmd := m.handleTranslateTick(translateTickMsg(m.debounce)); cmd == nil {
		t.Fatal("the latest debounce tick must issue the translation")
	}
}

func TestTranslateResultUpdatesEditor(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "alpha")

	req, ok := m.session.ChangeFormat(0, document.Turtle)
	if !ok {
		t.Fatal("ChangeFormat failed")
	}
	m.handleTranslateResult(translateResultMsg{res: session.Result{Req: req, Text: "@prefix ex: <e> ."}})

	cur, _ := m.session.Current()
	if cur.Doc.Format != document.Turtle {
		t.Fatalf("format = %q, want turtle", cur.Doc.Format)
	}
	if m.editor.Value() != "@prefix ex: <e> ." {
		t.Fatalf("editor = %q, must show the converted text", m.editor.Value())
	}
}

func TestTranslateFailureSetsRetry(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "alpha")

	m.editor.SetValue("broken")
	m.noteTextEdit()
	req, ok := m.session.TextRequest(0)
	if !ok {
		t.Fatal("TextRequest failed")
	}
	m.handleTranslateResult(translateResultMsg{res: session.Result{Req: req, Err: errors.New("boom")}})
	if m.lastFailed == nil {
		t.Fatal("a failed translation must arm the retry affordance")
	}
	if o, _ := m.session.At(0); !o.SavingError {
		t.Fatal("the failure must raise the saving-error flag")
	}
	if cmd := m.retryFailed(); cmd == nil {
		t.Fatal("retry must re-issue the failed request")
	}
	if o, _ := m.session.At(0); o.SavingError {
		t.Fatal("an in-flight retry must drop the saving-error indicator")
	}
}

func TestRenameReissuesPendingTranslation(t *testing.T) {
	m := newTestModel(t)
	openDocs(t, m, "alpha")

	m.editor.SetValue("pending edit")
	m.noteTextEdit()
	old := m.debounce

	m.startInput(modeRename, "New name", "beta")
	cmd := m.finishRename()
	if cmd == nil {
		t.Fatal("renaming with a pending edit must re-issue its translation")
	}
	if m.debounce.name != "beta" {
		t.Fatalf("debounce tracks %q, want the new name", m.debounce.name)
	}
	if tick := m.handleTranslateTick(translateTickMsg(old)); tick != nil {
		t.Fatal("the pre-rename debounce tick must stay discarded")
	}

	req, ok := m.session.TextRequest(0)
	if !ok || req.Name != "beta" || req.Text != "pending edit" {
		t.Fatalf("request = %+v, %v — must target the new identity", req, ok)
	}
	graph := document.Graph{"entity": json.RawMessage(`{"ex:a":{}}`)}
	if got := m.session.Apply(session.Result{Req: req, Graph: graph}); got != session.OutcomeApplied {
		t.Fatalf("outcome = %v, the re-issued edit must still commit", got)
	}
	cur, _ := m.session.Current()
	if cur.Doc.SourceText != "pending edit" || cur.State != session.Synced {
		t.Fatalf("after apply: text=%q state=%v", cur.Doc.SourceText, cur.State)
	}
}

func TestUploadInfersFormatFromExtension(t *testing.T) {
	m := newTestModel(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "data.ttl")
	if err := os.WriteFile(path, []byte("@prefix ex: <e> ."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.startInput(modeUpload, "Path to file", path)
	cmd := m.finishUploadPath()
	if cmd == nil {
		t.Fatal("a resolved upload must issue the graph translation")
	}
	cur, ok := m.session.Current()
	if !ok || cur.Doc.Format != document.Turtle {
		t.Fatalf("uploaded format = %v, want turtle", cur.Doc.Format)
	}
	if cur.Doc.Name != "data" {
		t.Fatalf("uploaded name = %q, want data", cur.Doc.Name)
	}
}

func TestUploadUnknownExtensionRequiresFormat(t *testing.T) {
	m := newTestModel(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xyz")
	if err := os.WriteFile(path, []byte("???"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.startInput(modeUpload, "Path to file", path)
	if cmd := m.finishUploadPath(); cmd != nil {
		t.Fatal("an unresolved upload must not create the document yet")
	}
	if m.mode != modeUploadFormat {
		t.Fatalf("mode = %v, want the format picker", m.mode)
	}
	if _, ok := m.session.Current(); ok {
		t.Fatal("no document may exist before a format is chosen")
	}

	m.formatCursor = formatIndex(document.ProvN)
	if cmd := m.finishUploadFormat(); cmd == nil {
		t.Fatal("choosing a format must complete the upload")
	}
	cur, _ := m.session.Current()
	if cur.Doc.Format != document.ProvN {
		t.Fatalf("format = %v, want provn", cur.Doc.Format)
	}
}

func TestExportWritesDocumentFile(t *testing.T) {
	doc := document.NewExample("Report", time.Now())
	dir := t.TempDir()
	path, err := ExportDocument(doc, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "Report.json" {
		t.Fatalf("exported file = %q, want Report.json", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != doc.SourceText {
		t.Fatal("exported content must be the source text verbatim")
	}
}

func TestStoreWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.json")
	fs := store.NewFileStore(path)
	sess := session.New(context.Background(), fs)
	m := New(sess, translate.New(translate.DefaultServiceURL), path, "")

	if err := fs.Save(context.Background(), []document.Document{document.NewExample("seed", time.Now())}); err != nil {
		t.Fatalf("save: %v", err)
	}
	m.handleStoreWatchTick(storeWatchTickMsg{}) // baseline

	later := time.Now().Add(2 * time.Second)
	docs := []document.Document{
		document.NewExample("seed", later),
		document.NewExample("external", later),
	}
	if err := fs.Save(context.Background(), docs); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	m.handleStoreWatchTick(storeWatchTickMsg{})
	if len(m.session.Local()) != 2 {
		t.Fatalf("library len = %d, want 2 after external change", len(m.session.Local()))
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q must quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("msg = %v, want tea.Quit", msg)
	}
}
