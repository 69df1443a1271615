// translate.go wires the session's translation requests to the gateway as
// background commands, with debouncing for text edits.
//
// Each keystroke in the editor records pending text in the session and
// starts a debounce timer tagged with the document name and the edit
// version it was issued for. If another keystroke lands before the timer
// fires, the version moves on and the stale tick is discarded; only the
// final tick issues a request. Results come back as translateResultMsg and
// are reconciled by the session, which drops anything that no longer
// matches current state.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/session"
)

// translateTickMsg is emitted by the debounce timer. The name and version
// are compared to the latest recorded edit to discard superseded ticks.
type translateTickMsg struct {
	name    string
	version uint64
}

// translateResultMsg carries a finished translation back from the
// background command to the update loop.
type translateResultMsg struct {
	res session.Result
}

// debounceState remembers the most recent text edit so stale debounce
// ticks can be recognized.
type debounceState struct {
	name    string
	version uint64
}

// SetDebounce overrides the debounce window (configuration).
func (m *Model) SetDebounce(d time.Duration) {
	if d > 0 {
		m.debounceWindow = d
	}
}

func (m *Model) effectiveDebounce() time.Duration {
	if m.debounceWindow <= 0 {
		return DefaultTranslateDebounce
	}
	return m.debounceWindow
}

// noteTextEdit records the editor's current value as pending text and
// starts the debounce timer for it.
func (m *Model) noteTextEdit() tea.Cmd {
	cur := m.session.CurrentIndex()
	if cur < 0 {
		return nil
	}
	version, ok := m.session.SetPendingText(cur, m.editor.Value())
	if !ok {
		return nil
	}
	doc, _ := m.session.At(cur)
	name := doc.Doc.Name
	m.debounce = debounceState{name: name, version: version}
	return tea.Tick(m.effectiveDebounce(), func(time.Time) tea.Msg {
		return translateTickMsg{name: name, version: version}
	})
}

// handleTranslateTick fires when the debounce window closes. Ticks for
// superseded edits are dropped; the surviving tick issues the translation.
func (m *Model) handleTranslateTick(msg translateTickMsg) tea.Cmd {
	if msg.name != m.debounce.name || msg.version != m.debounce.version {
		return nil
	}
	i := m.openIndexOf(msg.name)
	if i < 0 {
		return nil
	}
	req, ok := m.session.TextRequest(i)
	if !ok || req.Version != msg.version {
		return nil
	}
	m.translating = true
	return m.translateCmd(req)
}

// translateCmd runs the gateway call on a background goroutine so the UI
// stays responsive, and reports back as a translateResultMsg.
func (m *Model) translateCmd(req session.Request) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		res := session.Result{Req: req}
		switch req.Direction {
		case session.ToGraph:
			res.Graph, res.Err = gw.ToGraph(context.Background(), req.Text, req.Format)
		default:
			res.Text, res.Err = gw.ToText(context.Background(), req.Graph, req.Format)
		}
		return translateResultMsg{res: res}
	}
}

// handleTranslateResult reconciles a finished translation through the
// session and refreshes the widgets when it applied to the active
// document.
func (m *Model) handleTranslateResult(msg translateResultMsg) tea.Cmd {
	m.translating = false
	req := msg.res.Req

	switch m.session.Apply(msg.res) {
	case session.OutcomeStale:
		appLog.Debug("discarded stale translation", "document", req.Name, "version", req.Version)
		return nil
	case session.OutcomeFailed:
		m.lastFailed = &req
		m.setStatusError(failureStatus(req), msg.res.Err, "document", req.Name, "version", req.Version)
		return nil
	}

	m.lastFailed = nil
	m.status = "Saved"
	if cur, ok := m.session.Current(); ok && cur.Doc.Name == req.Name {
		m.refreshVisualizer()
		if req.Direction == session.ToText {
			// The committed source text changed underneath the editor.
			m.editor.SetValue(cur.DisplayText())
		}
		if req.FormatChange {
			m.status = fmt.Sprintf("Format changed to %s", cur.Doc.Format)
		}
	}
	return nil
}

// retryFailed re-issues the last failed translation with identical
// arguments. The session still discards the result if the document moved
// on in the meantime.
func (m *Model) retryFailed() tea.Cmd {
	if m.lastFailed == nil {
		m.status = "Nothing to retry"
		return nil
	}
	req := *m.lastFailed
	if i := m.openIndexOf(req.Name); i >= 0 {
		m.session.ClearSavingError(i)
	}
	m.translating = true
	m.status = "Retrying..."
	return m.translateCmd(req)
}

// finishFormatChange issues the conversion chosen in the format picker.
func (m *Model) finishFormatChange() tea.Cmd {
	m.mode = modeBrowse
	cur := m.session.CurrentIndex()
	if cur < 0 {
		return nil
	}
	target := document.Formats()[m.formatCursor]
	req, ok := m.session.ChangeFormat(cur, target)
	if !ok {
		return nil
	}
	m.translating = true
	m.status = fmt.Sprintf("Converting to %s...", target)
	return m.translateCmd(req)
}

func (m *Model) openIndexOf(name string) int {
	for i, o := range m.session.Documents() {
		if o.Doc.Name == name {
			return i
		}
	}
	return -1
}

func failureStatus(req session.Request) string {
	switch {
	case req.FormatChange:
		return fmt.Sprintf("Could not convert to %s (ctrl+r to retry)", req.Format)
	case req.Direction == session.ToGraph:
		return "Could not save text edit (ctrl+r to retry)"
	default:
		return "Could not regenerate source text (ctrl+r to retry)"
	}
}
