package sentence

type GroupType string

const (
	NounPhrase GroupType = "GN"
	VerbPhrase GroupType = "GV"
)

// Group is a phrase span between two position keys, both inclusive.
type Group struct {
	Type  GroupType `json:"type"`
	Start Key       `json:"start"`
	End   Key       `json:"end"`

	// Noun phrases found strictly inside the span
	Nested []Group `json:"nested,omitempty"`
}

// Contains reports whether k falls within the span.
func (g Group) Contains(k Key) bool {
	return !k.Less(g.Start) && !g.End.Less(k)
}

// Same reports whether both groups have the same type and bounds.
func (g Group) Same(o Group) bool {
	return g.Type == o.Type && g.Start == o.Start && g.End == o.End
}

func (g Group) String() string {
	return string(g.Type) + "[" + g.Start.String() + ".." + g.End.String() + "]"
}
