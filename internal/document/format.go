package document

import (
	"path/filepath"
	"strings"
)

// Format names a provenance serialization notation. PROV-JSON is the
// canonical structured form; the remaining formats are textual notations
// reachable only through the translation service.
type Format string

const (
	ProvJSON Format = "PROV-JSON"
	ProvN    Format = "PROV-N"
	Turtle   Format = "Turtle"
	ProvXML  Format = "PROV-XML"
	TriG     Format = "TriG"
)

// Formats lists every supported serialization format in menu order.
func Formats() []Format {
	return []Format{ProvN, Turtle, ProvXML, TriG, ProvJSON}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case ProvJSON, ProvN, Turtle, ProvXML, TriG:
		return true
	}
	return false
}

// ContentType returns the MIME type used for content negotiation with the
// translation service.
func (f Format) ContentType() string {
	switch f {
	case ProvJSON:
		return "application/json"
	case ProvXML:
		return "application/rdf+xml"
	case TriG:
		return "application/trig"
	case Turtle:
		return "text/turtle"
	default:
		return "text/provenance-notation"
	}
}

// Extension returns the file extension (with leading dot) used when
// exporting a document in this format.
func (f Format) Extension() string {
	switch f {
	case ProvJSON:
		return ".json"
	case ProvN:
		return ".provn"
	case ProvXML:
		return ".xml"
	case TriG:
		return ".trig"
	default:
		return ".ttl"
	}
}

// ParseFormat resolves a user-supplied format name. Matching is
// case-insensitive and tolerates surrounding whitespace.
func ParseFormat(value string) (Format, bool) {
	trimmed := strings.TrimSpace(value)
	for _, format := range Formats() {
		if strings.EqualFold(trimmed, string(format)) {
			return format, true
		}
	}
	return "", false
}

// FormatForFilename infers a serialization format from a file name's
// extension. Upload uses this table; an unrecognized extension returns
// ok=false and the format must be supplied by the user before the document
// can be created.
func FormatForFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".provn":
		return ProvN, true
	case ".ttl":
		return Turtle, true
	case ".provx":
		return ProvXML, true
	case ".trig":
		return TriG, true
	case ".json":
		return ProvJSON, true
	}
	return "", false
}
