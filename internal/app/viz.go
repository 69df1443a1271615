// viz.go renders the visualizer pane: a structured summary of the active
// document's provenance graph, formatted as markdown and rendered through
// Glamour for the viewport.
package app

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/prov-studio/prov-studio/internal/document"
)

// maxSectionKeys bounds how many identifiers are listed per graph section.
const maxSectionKeys = 8

var (
	// rendererMu protects the cached Glamour renderer; refreshes can race
	// with background translation commands finishing.
	rendererMu    sync.Mutex
	renderer      *glamour.TermRenderer
	rendererWidth int
)

// refreshVisualizer rebuilds the visualizer pane from the active document.
func (m *Model) refreshVisualizer() {
	cur, ok := m.session.Current()
	if !ok {
		m.viz.SetContent("Open a document to visualize it")
		return
	}
	summary := graphSummary(cur.Doc)
	m.viz.SetContent(renderSummary(summary, m.viz.Width))
}

// graphSummary builds a markdown overview of the document's graph: node
// and relation counts plus the leading identifiers of each populated
// section.
func graphSummary(doc document.Document) string {
	stats := doc.Graph.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Name)
	fmt.Fprintf(&b, "Format: **%s** · Updated: %s\n\n", doc.Format, doc.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "| Entities | Activities | Agents | Bundles | Relations |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n",
		stats.Entities, stats.Activities, stats.Agents, stats.Bundles, stats.Relations)

	for _, section := range []string{"entity", "activity", "agent", "bundle"} {
		keys := doc.Graph.SectionKeys(section)
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, "## %s\n\n", section)
		shown := keys
		if len(shown) > maxSectionKeys {
			shown = shown[:maxSectionKeys]
		}
		for _, key := range shown {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
		if len(keys) > maxSectionKeys {
			fmt.Fprintf(&b, "- … %d more\n", len(keys)-maxSectionKeys)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSummary converts the markdown summary to ANSI output for the
// viewport. Rendering failures fall back to the raw markdown so the user
// still sees content.
func renderSummary(summary string, width int) string {
	r, err := getRenderer(width)
	if err != nil {
		appLog.Error("create summary renderer", "width", width, "error", err)
		return summary
	}
	out, err := r.Render(summary)
	if err != nil {
		appLog.Error("render graph summary", "width", width, "error", err)
		return summary
	}
	return out
}

// getRenderer returns a Glamour renderer for the given width, reusing the
// cached one while the width is unchanged.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if renderer != nil && rendererWidth == width {
		return renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamourStyleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderer = r
	rendererWidth = width
	return r, nil
}

// glamourStyleOption resolves the rendering style from
// PROVSTUDIO_GLAMOUR_STYLE, then GLAMOUR_STYLE, defaulting to "dark" to
// avoid terminal background queries. "auto" delegates to Glamour's
// detection.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("PROVSTUDIO_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	if style == "" {
		style = "dark"
	}
	if style == "auto" {
		return glamour.WithAutoStyle()
	}
	switch style {
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
