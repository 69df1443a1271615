package document

import (
	"encoding/json"
	"time"
)

// exampleProvJSON is a small self-contained PROV-JSON document used to seed
// new documents created from the start view. It models the canonical
// "article authored by a person, derived from a dataset" example.
const exampleProvJSON = `{
  "prefix": {
    "ex": "http://example.org/"
  },
  "entity": {
    "ex:article": {
      "prov:label": "Quarterly Report"
    },
    "ex:dataset": {
      "prov:label": "Source Dataset"
    }
  },
  "activity": {
    "ex:compose": {
      "prov:startTime": "2020-01-01T09:00:00",
      "prov:endTime": "2020-01-01T17:00:00"
    }
  },
  "agent": {
    "ex:author": {
      "prov:type": "prov:Person"
    }
  },
  "wasGeneratedBy": {
    "_:gen1": {
      "prov:entity": "ex:article",
      "prov:activity": "ex:compose"
    }
  },
  "used": {
    "_:use1": {
      "prov:activity": "ex:compose",
      "prov:entity": "ex:dataset"
    }
  },
  "wasAttributedTo": {
    "_:att1": {
      "prov:entity": "ex:article",
      "prov:agent": "ex:author"
    }
  }
}`

// ExampleBaseName is the base name offered when creating a new document;
// collisions are resolved by UniqueName.
const ExampleBaseName = "My PROV Document"

// NewExample builds a fresh document seeded with the example graph. The
// name must already be resolved to a unique value by the caller.
func NewExample(name string, now time.Time) Document {
	var graph Graph
	// The example constant is known-good JSON.
	_ = json.Unmarshal([]byte(exampleProvJSON), &graph)
	return Document{
		Name:       name,
		UpdatedAt:  now,
		Format:     ProvJSON,
		SourceText: exampleProvJSON,
		Graph:      graph,
	}
}
