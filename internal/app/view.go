// view.go composes the frame: tab strip, split body, and status footer.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/prov-studio/prov-studio/internal/document"
	"github.com/prov-studio/prov-studio/internal/session"
)

// View renders the entire UI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Starting..."
	}
	return strings.Join([]string{
		m.renderTabs(),
		m.renderBody(),
		m.renderFooter(),
	}, "\n")
}

// resizePanes propagates the current geometry into the widgets.
func (m *Model) resizePanes() {
	g := m.layout.Geometry()
	bodyH := max(m.height-TabRows-FooterRows, 3)

	if g.ShowEditor {
		m.editor.SetWidth(max(g.EditorWidth-4, 10))
		m.editor.SetHeight(max(bodyH-2, 1))
	}
	if g.ShowVisualizer {
		m.viz.Width = max(g.VisualizerWidth-4, 10)
		m.viz.Height = max(bodyH-2, 1)
	}
	m.refreshVisualizer()
}

// renderTabs draws the open-document strip. The active tab is inverted;
// tabs with unsynced or failed state carry a marker.
func (m *Model) renderTabs() string {
	docs := m.session.Documents()
	if len(docs) == 0 {
		return truncate(mutedStyle.Render(" no open documents "), m.width)
	}
	parts := make([]string, 0, len(docs))
	for i, o := range docs {
		label := o.Doc.Name
		style := tabStyle
		switch o.State {
		case session.Failed:
			label += " !"
			style = failedTabStyle
		case session.GraphAhead, session.TextAhead:
			label += " *"
			style = dirtyTabStyle
		}
		if i == m.session.CurrentIndex() {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(label))
	}
	return truncate(strings.Join(parts, dividerStyle.Render("│")), m.width)
}

func (m *Model) renderBody() string {
	bodyH := max(m.height-TabRows-FooterRows, 3)

	switch m.mode {
	case modeFormat, modeUploadFormat:
		return m.renderFormatPicker(bodyH)
	}

	g := m.layout.Geometry()
	cols := make([]string, 0, 3)
	if g.ShowEditor {
		cols = append(cols, editorPane.Width(max(g.EditorWidth-4, 10)).Height(bodyH-2).Render(m.editorContent()))
	}
	if g.ShowEditor && g.ShowVisualizer {
		cols = append(cols, dividerStyle.Render(verticalBar(bodyH)))
	}
	if g.ShowVisualizer {
		cols = append(cols, vizPane.Width(max(g.VisualizerWidth-4, 10)).Height(bodyH-2).Render(m.viz.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) editorContent() string {
	if _, ok := m.session.Current(); !ok {
		return m.startScreen()
	}
	return m.editor.View()
}

// startScreen lists the library when no document is open.
func (m *Model) startScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ProvStudio"))
	b.WriteString("\n\n")
	local := m.session.Local()
	if len(local) == 0 {
		b.WriteString(mutedStyle.Render("No documents yet. Press n to create one, or u to upload."))
		return b.String()
	}
	b.WriteString(mutedStyle.Render("Library:"))
	b.WriteString("\n")
	for _, doc := range local {
		fmt.Fprintf(&b, "  %s  %s\n", doc.Name, mutedStyle.Render(string(doc.Format)))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("n: new · u: upload · q: quit"))
	return b.String()
}

// renderFormatPicker draws the format list for format-change and
// ambiguous-upload flows.
func (m *Model) renderFormatPicker(bodyH int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a format"))
	b.WriteString("\n\n")
	for i, f := range document.Formats() {
		line := fmt.Sprintf("  %-10s %s", f, mutedStyle.Render(f.ContentType()))
		if i == m.formatCursor {
			line = selectedStyle.Render(fmt.Sprintf("> %-10s", string(f))) + " " + mutedStyle.Render(f.ContentType())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter: select · esc: cancel"))
	return paneStyle.Width(max(m.width-4, 20)).Height(bodyH - 2).Render(b.String())
}

// renderFooter draws the status row and the context row (path, format,
// sync state, key hints).
func (m *Model) renderFooter() string {
	status := m.status
	if m.translating {
		status = m.spinner.View() + " Translating... " + status
	}
	styled := statusStyle.Render(status)
	if m.lastFailed != nil {
		styled = errorStatus.Render(status)
	}

	if m.mode == modeRename || m.mode == modeNew || m.mode == modeUpload {
		styled = m.input.View()
	}

	context := m.path
	if cur, ok := m.session.Current(); ok {
		stats := cur.Doc.Graph.Stats()
		context = fmt.Sprintf("%s · %s · %d nodes, %d relations · %s",
			m.path, cur.Doc.Format, stats.Nodes(), stats.Relations, syncLabel(cur))
	}
	help := "e: edit · f: format · r: rename · n: new · u: upload · x: export · w: close · q: quit"

	return padRight(styled, m.width) + "\n" +
		truncate(mutedStyle.Render(context+"   "+help), m.width)
}

func syncLabel(o session.OpenDocument) string {
	switch o.State {
	case session.Synced:
		return "synced"
	case session.GraphAhead, session.TextAhead:
		return "saving"
	default:
		if o.SavingError {
			return "save failed"
		}
		return "failed"
	}
}

func verticalBar(height int) string {
	if height <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("│\n", height), "\n")
}
