package rule

// Attr selects the token attribute a variable reference reads.
type Attr int

const (
	// AttrNone is a bare $var
	AttrNone Attr = iota
	AttrText
	AttrTextLower
	AttrLemma
	AttrDep
	AttrPos
	AttrHeadId
	AttrHeadPos
	AttrSelfId
	AttrUnknown
)

var attrNames = map[string]Attr{
	"":           AttrNone,
	"text":       AttrText,
	"text.lower": AttrTextLower,
	"lemma_":     AttrLemma,
	"dep_":       AttrDep,
	"pos_":       AttrPos,
	"head.i":     AttrHeadId,
	"head.pos_":  AttrHeadPos,
	"i":          AttrSelfId,
}

// ParseAttr returns the selector of an attribute suffix, AttrUnknown if it
// is not supported.
func ParseAttr(s string) Attr {
	if a, ok := attrNames[s]; ok {
		return a
	}
	return AttrUnknown
}

// Ref is a $var[.attr] reference.
type Ref struct {
	Var  string
	Attr Attr

	// the attribute as written
	Name string
}

func (r Ref) String() string {
	if r.Name == "" {
		return "$" + r.Var
	}
	return "$" + r.Var + "." + r.Name
}

// Resolver gives the value of a reference under one variable binding.
// Absent bindings and unsupported attributes resolve to false.
type Resolver interface {
	Resolve(ref Ref) Value
}
