// upload.go implements importing a document from a local file. The format
// is inferred from the file extension; when the extension is unknown, the
// user must pick a format before the document can be created.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prov-studio/prov-studio/internal/document"
)

// finishUploadPath reads the file named in the path input. Known
// extensions create the document immediately; unknown ones open the
// format picker with the upload parked until a format is chosen.
func (m *Model) finishUploadPath() tea.Cmd {
	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		m.status = "A file path is required"
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		m.setStatusError("Could not read file", err, "path", path)
		return nil
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = document.ExampleBaseName
	}
	name = document.UniqueName(name, m.session.Local())

	m.input.Blur()
	format, ok := document.FormatForFilename(base)
	if !ok {
		m.uploadPending = uploadState{name: name, text: string(data)}
		m.formatCursor = 0
		m.mode = modeUploadFormat
		m.status = "Unknown extension: choose a format"
		return nil
	}
	return m.completeUpload(name, string(data), format)
}

// finishUploadFormat completes a parked upload with the picked format.
func (m *Model) finishUploadFormat() tea.Cmd {
	pending := m.uploadPending
	if pending.name == "" {
		m.mode = modeBrowse
		return nil
	}
	m.uploadPending = uploadState{}
	format := document.Formats()[m.formatCursor]
	return m.completeUpload(pending.name, pending.text, format)
}

// completeUpload opens the uploaded document and issues the translation
// that derives its graph from the uploaded text.
func (m *Model) completeUpload(name, text string, format document.Format) tea.Cmd {
	m.mode = modeBrowse
	doc := document.Document{
		Name:       name,
		UpdatedAt:  time.Now(),
		Format:     format,
		SourceText: text,
	}
	i := m.session.Open(doc)
	m.syncActiveDocument()

	if _, ok := m.session.SetPendingText(i, text); !ok {
		return nil
	}
	req, ok := m.session.TextRequest(i)
	if !ok {
		return nil
	}
	m.translating = true
	m.status = fmt.Sprintf("Imported %q as %s", name, format)
	return m.translateCmd(req)
}
