package render

import (
	"encoding/json"
	"io"

	sent "github.com/revelaction/semgraph/sentence"
	"github.com/revelaction/semgraph/storage"
)

// JSONRenderer writes docs and relation tables as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Table is the JSON form of a relation table.
type Table struct {
	Relation string             `json:"relation"`
	Rows     []storage.Relation `json:"rows"`
}

// Doc serializes the analyzed doc.
func (r *JSONRenderer) Doc(doc *sent.Doc) {
	json.NewEncoder(r.W).Encode(doc)
}

// Relations serializes a relation table.
func (r *JSONRenderer) Relations(relation string, rows []storage.Relation) {
	if rows == nil {
		rows = []storage.Relation{}
	}
	json.NewEncoder(r.W).Encode(Table{Relation: relation, Rows: rows})
}

// compile-time interface check
var _ DocRenderer = (*JSONRenderer)(nil)
