// export.go writes the active document's source text to a file named
// after the document, with the extension determined by its format.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prov-studio/prov-studio/internal/document"
)

// ExportDocument writes doc's source text to dir, returning the written
// path. The file name is the document name plus the format's extension.
func ExportDocument(doc document.Document, dir string) (string, error) {
	path := filepath.Join(dir, doc.Name+doc.Format.Extension())
	if err := os.WriteFile(path, []byte(doc.SourceText), FilePermission); err != nil {
		return "", fmt.Errorf("export %q: %w", doc.Name, err)
	}
	return path, nil
}

// exportCurrent exports the active document into the working directory.
func (m *Model) exportCurrent() {
	cur, ok := m.session.Current()
	if !ok {
		return
	}
	path, err := ExportDocument(cur.Doc, "")
	if err != nil {
		m.setStatusError("Export failed", err, "document", cur.Doc.Name)
		return
	}
	m.status = fmt.Sprintf("Exported to %s", path)
}
