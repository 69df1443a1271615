// watcher.go implements poll-based monitoring of the library file for
// external changes, e.g. another running instance saving documents.
//
// Every poll interval the library file is stat'd and its modification
// time compared to the last observed one. A change triggers a library
// reload; open tabs are left untouched so unsaved edits survive. The
// first observation only establishes the baseline.
package app

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// storeWatchTickMsg is emitted by the periodic poll timer.
type storeWatchTickMsg struct{}

// scheduleStoreWatchTick queues the next poll after the configured
// interval.
func (m *Model) scheduleStoreWatchTick() tea.Cmd {
	return tea.Tick(StoreWatchInterval, func(time.Time) tea.Msg {
		return storeWatchTickMsg{}
	})
}

// handleStoreWatchTick compares the library file's modification time to
// the last observed one and reloads the library on a change. The next
// poll is always scheduled so monitoring continues for the lifetime of
// the application.
func (m *Model) handleStoreWatchTick(_ storeWatchTickMsg) (tea.Model, tea.Cmd) {
	info, err := os.Stat(m.watchPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			appLog.Warn("stat library file", "path", m.watchPath, "error", err)
		}
		return m, m.scheduleStoreWatchTick()
	}

	mod := info.ModTime().UnixNano()
	if m.storeModNano == 0 {
		m.storeModNano = mod
		return m, m.scheduleStoreWatchTick()
	}
	if mod != m.storeModNano {
		m.storeModNano = mod
		m.session.ReloadLocal()
		m.status = "Library refreshed (external changes detected)"
		appLog.Info("library reloaded after external change", "path", m.watchPath)
	}
	return m, m.scheduleStoreWatchTick()
}
