package route

import (
	"testing"
	"time"

	"github.com/prov-studio/prov-studio/internal/document"
)

func docs(names ...string) []document.Document {
	out := make([]document.Document, len(names))
	for i, name := range names {
		out[i] = document.NewExample(name, time.Now())
	}
	return out
}

func TestPathFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{name: "", want: "/"},
		{name: "Report", want: "/Report"},
		{name: "My PROV Document", want: "/My-PROV-Document"},
	}
	for _, tc := range cases {
		if got := PathFor(tc.name); got != tc.want {
			t.Errorf("PathFor(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	open := docs("Report", "Findings", "My PROV Document")
	local := append(docs("Archive"), open...)

	cases := []struct {
		name       string
		path       string
		current    int
		wantAction Action
		wantIndex  int
		wantDoc    string
	}{
		{name: "root path", path: "/", current: 0, wantAction: Home},
		{name: "empty path", path: "", current: -1, wantAction: Home},
		{name: "current document wins", path: "/Report", current: 0, wantAction: Switch, wantIndex: 0},
		{name: "other open tab", path: "/Findings", current: 0, wantAction: Switch, wantIndex: 1},
		{name: "slugified match", path: "/My-PROV-Document", current: 0, wantAction: Switch, wantIndex: 2},
		{name: "library document opens", path: "/Archive", current: 0, wantAction: Open, wantDoc: "Archive"},
		{name: "unknown slug redirects", path: "/nope", current: 0, wantAction: Redirect},
		{name: "no active document", path: "/Findings", current: -1, wantAction: Switch, wantIndex: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.path, open, tc.current, local)
			if got.Action != tc.wantAction {
				t.Fatalf("action = %v, want %v", got.Action, tc.wantAction)
			}
			if got.Action == Switch && got.Index != tc.wantIndex {
				t.Fatalf("index = %d, want %d", got.Index, tc.wantIndex)
			}
			if got.Action == Open && got.Doc.Name != tc.wantDoc {
				t.Fatalf("doc = %q, want %q", got.Doc.Name, tc.wantDoc)
			}
		})
	}
}
