// Package route maps between the active document's slugified name and a
// navigable path, bidirectionally: the session drives the path, and an
// incoming path drives which document is active.
package route

import (
	"github.com/prov-studio/prov-studio/internal/document"
)

// Action tells the caller how to react to an incoming path.
type Action int

const (
	// Home: show the start screen (no active document).
	Home Action = iota
	// Switch: activate the already-open tab at Index.
	Switch
	// Open: open Doc from the library.
	Open
	// Redirect: unknown slug; navigate to "/".
	Redirect
)

// Resolution is the outcome of resolving an incoming path.
type Resolution struct {
	Action Action
	Index  int               // valid for Switch
	Doc    document.Document // valid for Open
}

// PathFor returns the navigable path for a document name, or "/" for the
// empty name.
func PathFor(name string) string {
	slug := document.Slugify(name)
	if slug == "" {
		return "/"
	}
	return "/" + slug
}

// Resolve maps an incoming path onto session state. Precedence: the
// current document, then other open tabs, then the persisted library;
// anything else redirects home. Matching is by slugified name, so a path
// survives the lossy transform applied when it was produced.
func Resolve(path string, open []document.Document, current int, local []document.Document) Resolution {
	if path == "" || path == "/" {
		return Resolution{Action: Home}
	}
	slug := path
	if slug[0] == '/' {
		slug = slug[1:]
	}

	if current >= 0 && current < len(open) && document.Slugify(open[current].Name) == slug {
		return Resolution{Action: Switch, Index: current}
	}
	for i, doc := range open {
		if document.Slugify(doc.Name) == slug {
			return Resolution{Action: Switch, Index: i}
		}
	}
	for _, doc := range local {
		if document.Slugify(doc.Name) == slug {
			return Resolution{Action: Open, Doc: doc}
		}
	}
	return Resolution{Action: Redirect}
}
