// Package app is the terminal UI: a tab strip of open provenance
// documents over a split view pairing the source-text editor with the
// graph visualizer. Edits on either side re-enter the session, which
// issues translation requests the app executes as background commands.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/layout"
	"github.com/prov-studio/prov-studio/internal/route"
	"github.com/prov-studio/prov-studio/internal/session"
	"github.com/prov-studio/prov-studio/internal/translate"
)

// mode controls the UI state and which input widget is active.
type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeRename
	modeNew
	modeUpload
	modeUploadFormat
	modeFormat
	modeConfirmDelete
)

// Model holds the Bubble Tea state for the entire UI.
type Model struct {
	session *session.Session
	gateway *translate.Gateway

	// watchPath is the library file monitored for external changes; empty
	// when the library lives elsewhere (e.g. Redis).
	watchPath string

	// UI widgets
	editor  textarea.Model
	input   textinput.Model
	viz     viewport.Model
	spinner spinner.Model

	layout *layout.Engine
	mode   mode
	status string
	path   string
	width  int
	height int

	// Translation indicator
	translating bool

	// Debounced translation bookkeeping
	debounce       debounceState
	debounceWindow time.Duration
	lastFailed     *session.Request

	uploadPending uploadState
	formatCursor  int
	deleteTarget  string
	storeModNano  int64
	initialPath   string
}

// uploadState holds an upload whose format is not yet resolved.
type uploadState struct {
	name string
	text string
}

// New prepares the initial UI model.
func New(sess *session.Session, gateway *translate.Gateway, watchPath, initialPath string) *Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Open a document to visualize it")

	input := textinput.New()
	input.Placeholder = "Name"
	input.CharLimit = InputCharLimit

	editor := textarea.New()
	editor.Placeholder = "Provenance source text..."
	editor.CharLimit = 0
	applyEditorTheme(&editor)

	spin := spinner.New()
	spin.Spinner = spinner.Line

	return &Model{
		session:     sess,
		gateway:     gateway,
		watchPath:   watchPath,
		editor:      editor,
		input:       input,
		viz:         vp,
		spinner:     spin,
		layout:      layout.NewEngine(MinEditorWidth, MinVisualizerWidth, DividerWidth),
		mode:        modeBrowse,
		status:      "Ready",
		path:        "/",
		initialPath: initialPath,
	}
}

// Init starts the spinner, the store watcher, and resolves the initial
// navigation path.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.watchPath != "" {
		cmds = append(cmds, m.scheduleStoreWatchTick())
	}
	if m.initialPath != "" && m.initialPath != "/" {
		m.navigate(m.initialPath)
	}
	return tea.Batch(cmds...)
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout.Resize(msg.Width)
		m.resizePanes()
		return m, nil
	case translateTickMsg:
		return m, m.handleTranslateTick(msg)
	case translateResultMsg:
		return m, m.handleTranslateResult(msg)
	case storeWatchTickMsg:
		return m.handleStoreWatchTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey routes key presses based on the current mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.mode {
	case modeEdit:
		switch key {
		case "esc":
			m.mode = modeBrowse
			m.editor.Blur()
			m.status = "Browsing"
			return m, nil
		default:
			before := m.editor.Value()
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			if m.editor.Value() != before {
				return m, tea.Batch(cmd, m.noteTextEdit())
			}
			return m, cmd
		}
	case modeRename:
		switch key {
		case "enter":
			return m, m.finishRename()
		case "esc":
			m.cancelInput("Rename cancelled")
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	case modeNew:
		switch key {
		case "enter":
			m.finishNew()
			return m, nil
		case "esc":
			m.cancelInput("New document cancelled")
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	case modeUpload:
		switch key {
		case "enter":
			return m, m.finishUploadPath()
		case "esc":
			m.cancelInput("Upload cancelled")
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	case modeUploadFormat:
		switch key {
		case "up", "k":
			m.moveFormatCursor(-1)
			return m, nil
		case "down", "j":
			m.moveFormatCursor(1)
			return m, nil
		case "enter":
			return m, m.finishUploadFormat()
		case "esc":
			m.mode = modeBrowse
			m.uploadPending = uploadState{}
			m.status = "Upload cancelled"
			return m, nil
		}
		return m, nil
	case modeFormat:
		switch key {
		case "up", "k":
			m.moveFormatCursor(-1)
			return m, nil
		case "down", "j":
			m.moveFormatCursor(1)
			return m, nil
		case "enter":
			return m, m.finishFormatChange()
		case "esc":
			m.mode = modeBrowse
			m.status = "Format change cancelled"
			return m, nil
		}
		return m, nil
	case modeConfirmDelete:
		switch key {
		case "y", "enter":
			m.finishDelete()
			return m, nil
		case "n", "esc":
			m.mode = modeBrowse
			m.deleteTarget = ""
			m.status = "Delete cancelled"
			return m, nil
		}
		return m, nil
	}

	return m.handleBrowseKey(key)
}

func (m *Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "e", "enter":
		if _, ok := m.session.Current(); ok {
			m.mode = modeEdit
			m.status = "Editing (esc to stop)"
			return m, m.editor.Focus()
		}
		return m, nil
	case "tab", "right":
		m.switchTab(1)
		return m, nil
	case "shift+tab", "left":
		m.switchTab(-1)
		return m, nil
	case "ctrl+w", "w":
		m.closeCurrent()
		return m, nil
	case "n":
		m.startInput(modeNew, "Name", document.UniqueName(document.ExampleBaseName, m.session.Local()))
		return m, nil
	case "r":
		if cur, ok := m.session.Current(); ok {
			m.startInput(modeRename, "New name", cur.Doc.Name)
		}
		return m, nil
	case "u":
		m.startInput(modeUpload, "Path to file", "")
		return m, nil
	case "f":
		if cur, ok := m.session.Current(); ok {
			m.formatCursor = formatIndex(cur.Doc.Format)
			m.mode = modeFormat
			m.status = "Choose a format"
		}
		return m, nil
	case "x":
		m.exportCurrent()
		return m, nil
	case "d":
		if cur, ok := m.session.Current(); ok {
			m.deleteTarget = cur.Doc.Name
			m.mode = modeConfirmDelete
			m.status = fmt.Sprintf("Delete %q? (y/n)", cur.Doc.Name)
		}
		return m, nil
	case "ctrl+r":
		return m, m.retryFailed()
	case "1":
		m.layout.ToggleEditor()
		m.resizePanes()
		return m, nil
	case "2":
		m.layout.ToggleVisualizer()
		m.resizePanes()
		return m, nil
	}
	return m, nil
}

// switchTab activates the tab delta positions away, wrapping around.
func (m *Model) switchTab(delta int) {
	n := m.session.Len()
	if n == 0 {
		return
	}
	cur := m.session.CurrentIndex()
	if cur < 0 {
		cur = 0
	}
	next := ((cur+delta)%n + n) % n
	if m.session.SwitchTo(next) {
		m.syncActiveDocument()
	}
}

func (m *Model) closeCurrent() {
	cur := m.session.CurrentIndex()
	if cur < 0 {
		return
	}
	name := ""
	if doc, ok := m.session.Current(); ok {
		name = doc.Doc.Name
	}
	m.session.Close(cur)
	m.status = fmt.Sprintf("Closed %q", name)
	m.syncActiveDocument()
}

func (m *Model) startInput(target mode, placeholder, value string) {
	m.mode = target
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.status = placeholder
}

func (m *Model) cancelInput(status string) {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
	m.status = status
}

func (m *Model) finishRename() tea.Cmd {
	cur := m.session.CurrentIndex()
	name := m.input.Value()
	if err := m.session.Rename(cur, name); err != nil {
		// Keep the input open so the user can correct the name.
		m.setStatusError("Invalid name: "+err.Error(), err, "name", name)
		return nil
	}
	m.mode = modeBrowse
	m.input.Blur()
	m.status = fmt.Sprintf("Renamed to %q", name)
	m.syncActiveDocument()

	// A debounce tick armed before the rename carries the old name and
	// version and will be discarded, so a pending text edit must be
	// re-issued under the document's new identity or it would never
	// translate.
	if o, ok := m.session.At(cur); ok && o.State == session.TextAhead {
		if req, ok := m.session.TextRequest(cur); ok {
			m.debounce = debounceState{name: req.Name, version: req.Version}
			m.translating = true
			return m.translateCmd(req)
		}
	}
	return nil
}

func (m *Model) finishNew() {
	name := m.input.Value()
	if name == "" {
		m.setStatusError("Document name is required", session.ErrNameEmpty)
		return
	}
	if document.NameReserved(name) {
		m.setStatusError("That name is reserved", session.ErrNameReserved, "name", name)
		return
	}
	name = document.UniqueName(name, m.session.Local())
	doc := document.NewExample(name, time.Now())
	m.session.Open(doc)
	m.mode = modeBrowse
	m.input.Blur()
	m.status = fmt.Sprintf("Created %q", name)
	m.syncActiveDocument()
}

func (m *Model) finishDelete() {
	name := m.deleteTarget
	m.deleteTarget = ""
	m.mode = modeBrowse
	if name == "" {
		return
	}
	m.session.Delete(name)
	m.status = fmt.Sprintf("Deleted %q", name)
	m.syncActiveDocument()
}

// navigate resolves a path against session state, per the precedence:
// current document, other open tabs, the library, then redirect home.
func (m *Model) navigate(path string) {
	open := make([]document.Document, 0, m.session.Len())
	for _, o := range m.session.Documents() {
		open = append(open, o.Doc)
	}
	res := route.Resolve(path, open, m.session.CurrentIndex(), m.session.Local())
	switch res.Action {
	case route.Switch:
		m.session.SwitchTo(res.Index)
	case route.Open:
		m.session.Open(res.Doc)
	case route.Redirect:
		m.status = fmt.Sprintf("No document at %s", path)
	}
	m.syncActiveDocument()
}

// syncActiveDocument refreshes the widgets and the navigable path after
// the active document changed.
func (m *Model) syncActiveDocument() {
	cur, ok := m.session.Current()
	if !ok {
		m.path = "/"
		m.editor.SetValue("")
		m.viz.SetContent("Open a document to visualize it")
		return
	}
	m.path = route.PathFor(cur.Doc.Name)
	m.editor.SetValue(cur.DisplayText())
	m.refreshVisualizer()
}

func formatIndex(f document.Format) int {
	for i, candidate := range document.Formats() {
		if candidate == f {
			return i
		}
	}
	return 0
}

func (m *Model) moveFormatCursor(delta int) {
	n := len(document.Formats())
	m.formatCursor = ((m.formatCursor+delta)%n + n) % n
}
