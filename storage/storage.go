package storage

// Header is the column layout of a relation table.
var Header = []string{"source", "target", "recurrence"}

// Relation is one row of a relation table: the number of times the pair
// (Source, Target) has been asserted for the table's relation type.
type Relation struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Recurrence int    `json:"recurrence"`
}

// RelationReader defines read operations for relation tables
type RelationReader interface {
	// Scan returns the rows of a relation table in insertion order. An
	// unknown relation type has no rows.
	Scan(relation string) ([]Relation, error)

	// Types returns the relation types that have a table.
	Types() ([]string, error)
}

// RelationWriter defines write operations for relation tables
type RelationWriter interface {
	// Init creates an empty table for every type that has none.
	Init(types []string) error

	// Increment adds 1 to the recurrence of (source, target) in the table
	// of relation, creating the row and the table if needed. Self loops
	// are ignored.
	Increment(relation, source, target string) error
}

// RelationStore combines read and write operations
type RelationStore interface {
	RelationReader
	RelationWriter
}
