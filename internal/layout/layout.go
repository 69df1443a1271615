// Package layout computes split-pane geometry for the editor and
// visualizer panes: a continuous split ratio constrained by per-pane
// minimum widths, degrading to a single pane when space runs out.
package layout

// Default pane constraints in terminal cells.
const (
	DefaultMinEditorWidth     = 40
	DefaultMinVisualizerWidth = 30
	DefaultDividerWidth       = 1
)

// Geometry is the computed pane arrangement for the current width.
type Geometry struct {
	EditorWidth     int
	VisualizerWidth int
	ShowEditor      bool
	ShowVisualizer  bool
}

// Engine is the split-pane state machine: two visibility flags plus a
// continuous split ratio. Hiding caused by a shrink is a latch — a later
// resize that restores space does not re-show the pane; only an explicit
// toggle does.
type Engine struct {
	minEditor int
	minViz    int
	divider   int

	width    int
	ratio    float64 // editor's share of the splittable width
	measured bool

	showEditor bool
	showViz    bool
}

// NewEngine builds an engine with the given pane constraints.
func NewEngine(minEditor, minViz, divider int) *Engine {
	return &Engine{
		minEditor: minEditor,
		minViz:    minViz,
		divider:   divider,
		ratio:     0.5,
	}
}

// Resize records a new container width. On the first measurement both
// panes are shown when they fit, otherwise the editor takes the full
// width. On later resizes with both panes visible the split is re-clamped
// to the minimums; when the container can no longer hold both, the
// visualizer hides and the editor takes over.
func (e *Engine) Resize(width int) {
	e.width = width
	avail := width - e.divider

	if !e.measured {
		e.measured = true
		if avail >= e.minEditor+e.minViz {
			e.showEditor, e.showViz = true, true
			e.ratio = e.clampRatio(e.ratio, avail)
		} else {
			e.showEditor, e.showViz = true, false
		}
		return
	}

	if !e.showEditor || !e.showViz {
		return
	}
	if avail < e.minEditor+e.minViz {
		e.showViz = false
		return
	}
	e.ratio = e.clampRatio(e.ratio, avail)
}

// Drag moves the divider to pointer position x. Dragging past a pane's
// minimum switches to single-pane mode for the other pane instead of
// clamping.
func (e *Engine) Drag(x int) {
	avail := e.width - e.divider
	if avail < e.minEditor+e.minViz {
		return
	}
	switch {
	case x < e.minEditor:
		e.showEditor, e.showViz = false, true
	case avail-x < e.minViz:
		e.showEditor, e.showViz = true, false
	default:
		e.showEditor, e.showViz = true, true
		e.ratio = float64(x) / float64(avail)
	}
}

// ToggleEditor flips the editor pane's visibility.
func (e *Engine) ToggleEditor() { e.toggle(&e.showEditor, &e.showViz) }

// ToggleVisualizer flips the visualizer pane's visibility.
func (e *Engine) ToggleVisualizer() { e.toggle(&e.showViz, &e.showEditor) }

// toggle shows a hidden pane, or hides a visible one. At least one pane
// stays visible: showing a pane without room for both hides the other,
// and the sole visible pane cannot be hidden.
func (e *Engine) toggle(target, other *bool) {
	if *target {
		if *other {
			*target = false
		}
		return
	}
	avail := e.width - e.divider
	if avail >= e.minEditor+e.minViz {
		*target = true
		e.ratio = e.clampRatio(e.ratio, avail)
	} else {
		*target = true
		*other = false
	}
}

// Geometry returns pane widths for the current state. A lone pane takes
// the full container width; split panes sum to width minus the divider.
func (e *Engine) Geometry() Geometry {
	g := Geometry{ShowEditor: e.showEditor, ShowVisualizer: e.showViz}
	switch {
	case g.ShowEditor && g.ShowVisualizer:
		avail := e.width - e.divider
		ew := int(float64(avail)*e.clampRatio(e.ratio, avail) + 0.5)
		if ew < e.minEditor {
			ew = e.minEditor
		}
		if avail-ew < e.minViz {
			ew = avail - e.minViz
		}
		g.EditorWidth = ew
		g.VisualizerWidth = avail - ew
	case g.ShowEditor:
		g.EditorWidth = e.width
	case g.ShowVisualizer:
		g.VisualizerWidth = e.width
	}
	return g
}

// clampRatio keeps the split inside both panes' minimums.
func (e *Engine) clampRatio(ratio float64, avail int) float64 {
	if avail <= 0 {
		return ratio
	}
	lo := float64(e.minEditor) / float64(avail)
	hi := float64(avail-e.minViz) / float64(avail)
	if hi < lo {
		return ratio
	}
	if ratio < lo {
		return lo
	}
	if ratio > hi {
		return hi
	}
	return ratio
}
