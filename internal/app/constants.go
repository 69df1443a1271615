package app

import "time"

// Layout constants define pane sizing for the split view.
const (
	// MinEditorWidth is the minimum width of the source-text pane.
	MinEditorWidth = 40

	// MinVisualizerWidth is the minimum width of the visualizer pane.
	MinVisualizerWidth = 30

	// DividerWidth is the fixed width of the split divider column.
	DividerWidth = 1

	// FooterRows is the number of rows reserved for the status footer.
	FooterRows = 2

	// TabRows is the number of rows reserved for the tab strip.
	TabRows = 1
)

// Input limits define maximum sizes for user input.
const (
	// InputCharLimit is the maximum number of characters allowed in the
	// name and path inputs.
	InputCharLimit = 120
)

// Translation timing.
const (
	// DefaultTranslateDebounce is the idle window after a text keystroke
	// before the translation request is issued. Keystrokes arriving inside
	// the window coalesce into a single request.
	DefaultTranslateDebounce = 300 * time.Millisecond
)

// File system permissions.
const (
	// FilePermission is the permission mode for exported files.
	FilePermission = 0o644
)

// Watcher constants.
const (
	// StoreWatchInterval is the poll interval for external library changes.
	StoreWatchInterval = 2 * time.Second
)
