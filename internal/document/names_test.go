package document

import "testing"

func docsNamed(names ...string) []Document {
	docs := make([]Document, len(names))
	for i, name := range names {
		docs[i] = Document{Name: name}
	}
	return docs
}

func TestNameUnique(t *testing.T) {
	docs := docsNamed("Report", "Notes")
	if NameUnique("Report", docs) {
		t.Fatal("expected Report to be taken")
	}
	if !NameUnique("Report 2", docs) {
		t.Fatal("expected Report 2 to be free")
	}
	if !NameUnique("anything", nil) {
		t.Fatal("expected any name to be free in empty collection")
	}
}

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		existing []string
		want     string
	}{
		{name: "free base", base: "Report", existing: []string{"Notes"}, want: "Report"},
		{name: "first collision", base: "Report", existing: []string{"Report"}, want: "Report 2"},
		{name: "second collision", base: "Report", existing: []string{"Report", "Report 2"}, want: "Report 3"},
		{name: "gap is reused", base: "Report", existing: []string{"Report", "Report 3"}, want: "Report 2"},
		{name: "reserved base is skipped", base: "export", existing: nil, want: "export 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueName(tt.base, docsNamed(tt.existing...)); got != tt.want {
				t.Fatalf("UniqueName(%q): got %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestNameReserved(t *testing.T) {
	for _, reserved := range []string{"new", "New", " upload ", "EXPORT", "settings"} {
		if !NameReserved(reserved) {
			t.Fatalf("expected %q to be reserved", reserved)
		}
	}
	if NameReserved("Report") {
		t.Fatal("Report should not be reserved")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces to dashes", input: "My PROV Document", want: "My-PROV-Document"},
		{name: "trimmed", input: "  Report  ", want: "Report"},
		{name: "unsafe runes dropped", input: "a/b?c#d", want: "abcd"},
		{name: "collapsed whitespace", input: "a   b", want: "a-b"},
		{name: "safe punctuation kept", input: "v1.2_final~x", want: "v1.2_final~x"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Fatalf("Slugify(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGraphStats(t *testing.T) {
	doc := NewExample("Example", exampleTime(t))
	stats := doc.Graph.Stats()
	if stats.Entities != 2 || stats.Activities != 1 || stats.Agents != 1 {
		t.Fatalf("unexpected node counts: %+v", stats)
	}
	if stats.Relations != 3 {
		t.Fatalf("expected 3 relations, got %d", stats.Relations)
	}
	if stats.Prefixes != 1 {
		t.Fatalf("expected 1 prefix, got %d", stats.Prefixes)
	}
	if stats.Nodes() != 4 {
		t.Fatalf("expected 4 nodes, got %d", stats.Nodes())
	}
}
