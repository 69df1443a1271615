package document

import "encoding/json"

// GraphStats summarizes the size of a provenance graph by PROV category.
// The counts are purely structural (JSON object keys per section); no
// semantic validation is performed.
type GraphStats struct {
	Entities   int
	Activities int
	Agents     int
	Bundles    int
	Relations  int
	Prefixes   int
}

// relationSections are the PROV-JSON top-level sections that describe edges
// between nodes rather than the nodes themselves.
var relationSections = []string{
	"wasGeneratedBy", "used", "wasInformedBy", "wasStartedBy", "wasEndedBy",
	"wasInvalidatedBy", "wasDerivedFrom", "wasAttributedTo",
	"wasAssociatedWith", "actedOnBehalfOf", "specializationOf",
	"alternateOf", "hadMember", "wasInfluencedBy", "mentionOf",
}

// Stats counts the records in each graph section.
func (g Graph) Stats() GraphStats {
	stats := GraphStats{
		Entities:   sectionSize(g, "entity"),
		Activities: sectionSize(g, "activity"),
		Agents:     sectionSize(g, "agent"),
		Bundles:    sectionSize(g, "bundle"),
		Prefixes:   sectionSize(g, "prefix"),
	}
	for _, section := range relationSections {
		stats.Relations += sectionSize(g, section)
	}
	return stats
}

// Nodes returns the total node count across the node sections.
func (s GraphStats) Nodes() int {
	return s.Entities + s.Activities + s.Agents + s.Bundles
}

func sectionSize(g Graph, section string) int {
	raw, ok := g[section]
	if !ok {
		return 0
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0
	}
	return len(entries)
}

// SectionKeys decodes the identifiers recorded in one graph section, in no
// particular order. Used by the visualizer summary to list node names.
func (g Graph) SectionKeys(section string) []string {
	raw, ok := g[section]
	if !ok {
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	return keys
}
