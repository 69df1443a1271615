package document

import "testing"

func TestContentTypeTable(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{ProvJSON, "application/json"},
		{ProvXML, "application/rdf+xml"},
		{TriG, "application/trig"},
		{Turtle, "text/turtle"},
		{ProvN, "text/provenance-notation"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.ContentType(); got != tt.want {
				t.Fatalf("ContentType(%s): got %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestExtensionTable(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{ProvJSON, ".json"},
		{ProvN, ".provn"},
		{ProvXML, ".xml"},
		{TriG, ".trig"},
		{Turtle, ".ttl"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Fatalf("Extension(%s): got %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatForFilename(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   Format
		wantOK bool
	}{
		{name: "turtle", file: "data.ttl", want: Turtle, wantOK: true},
		{name: "provn", file: "graph.provn", want: ProvN, wantOK: true},
		{name: "xml uses provx", file: "graph.provx", want: ProvXML, wantOK: true},
		{name: "trig", file: "quads.trig", want: TriG, wantOK: true},
		{name: "json", file: "doc.json", want: ProvJSON, wantOK: true},
		{name: "case insensitive", file: "DATA.TTL", want: Turtle, wantOK: true},
		{name: "unknown extension", file: "data.xyz", wantOK: false},
		{name: "no extension", file: "data", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatForFilename(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("FormatForFilename(%q): ok=%v, want %v", tt.file, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("FormatForFilename(%q): got %s, want %s", tt.file, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if got, ok := ParseFormat("  prov-n "); !ok || got != ProvN {
		t.Fatalf("ParseFormat prov-n: got %q ok=%v", got, ok)
	}
	if _, ok := ParseFormat("rdf"); ok {
		t.Fatal("ParseFormat accepted unknown format")
	}
}
