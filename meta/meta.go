// Package meta defines the struct metadata model shared by the extraction,
// emission, and resolution stages. All metadata is built fresh per run and
// discarded after output is produced.
package meta

// State tracks a struct's progress through the pipeline. Emission is
// checked against it so a second structural match of the same name
// produces empty output instead of a duplicate definition.
type State int

const (
	Unseen State = iota
	Extracted
	Emitted
)

func (s State) String() string {
	switch s {
	case Extracted:
		return "extracted"
	case Emitted:
		return "emitted"
	}
	return "unseen"
}

// Alias returns the canonical typedef alias for a struct name ("Dog" →
// "Dog_t").
func Alias(structName string) string { return structName + "_t" }

// Tag returns the emitted struct tag for a struct name ("Dog" → "Dog_s").
// Tag names are reserved: the extractor skips struct definitions whose
// name already carries the suffix, which is what makes re-running the
// transformer on its own output a no-op.
func Tag(structName string) string { return structName + "_s" }

// Field is one plain data member of a struct.
type Field struct {
	Type         string // base type text, qualifiers included (e.g. "const unsigned int")
	PointerLevel int
	Name         string
	ArrayDim     string // dimension text including brackets (e.g. "[16]"), empty if none
	Initializer  string // initializer text including '=', empty if none
}

// Param is one declared method parameter, split into base type text,
// pointer depth and name so it can be re-rendered canonically.
type Param struct {
	Type         string // empty for a typeless parameter (passed through as name only)
	PointerLevel int
	Name         string
}

// Method is one `@`-declared method extracted from a struct body.
type Method struct {
	Name               string
	ReturnType         string
	ReturnPointerLevel int
	Params             []Param
	HasSelf            bool     // first param is a pointer to the enclosing struct
	Body               string   // opaque body text between the braces
	Comment            []string // verbatim comment lines preceding the header
	Line               int      // 1-based unit line where the declaration begins, leading comments included
}

// Global is one `@`-declared per-type global extracted from a struct body.
type Global struct {
	Name         string
	Type         string
	PointerLevel int
	Comment      []string // verbatim comment lines preceding the declaration
	Trailing     string   // declarator text after the name (e.g. " = 42"), verbatim
	Line         int
}

// Struct is the full metadata for one struct definition.
type Struct struct {
	Name    string
	Fields  []Field
	Methods []*Method // declaration order; same-name redeclaration replaces in place
	Globals []*Global // declaration order
	State   State
	Line    int // 1-based line of the struct keyword in the unit
}

// Method returns the named method, or nil.
func (s *Struct) Method(name string) *Method {
	for _, m := range s.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Global returns the named global, or nil.
func (s *Struct) Global(name string) *Global {
	for _, g := range s.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AddMethod appends a method, replacing any earlier method with the same
// name in place (later declarations win; original position kept).
func (s *Struct) AddMethod(m *Method) {
	for i, prev := range s.Methods {
		if prev.Name == m.Name {
			s.Methods[i] = m
			return
		}
	}
	s.Methods = append(s.Methods, m)
}

// AddGlobal appends a global, replacing any earlier global with the same
// name in place.
func (s *Struct) AddGlobal(g *Global) {
	for i, prev := range s.Globals {
		if prev.Name == g.Name {
			s.Globals[i] = g
			return
		}
	}
	s.Globals = append(s.Globals, g)
}

// Binding records one resolved variable declaration. The type keeps the
// un-suffixed struct name even after the declared line is rewritten to
// the `_t` alias, so call resolution works on bare struct names.
type Binding struct {
	Name         string
	Type         string
	PointerLevel int
}

// Table holds every struct in a translation unit, in first-seen order.
type Table struct {
	byName map[string]*Struct
	order  []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Struct)}
}

// Add registers a struct. Re-adding an existing name returns the already
// registered struct unchanged (struct re-declaration is undefined
// behavior and not validated).
func (t *Table) Add(s *Struct) *Struct {
	if prev, ok := t.byName[s.Name]; ok {
		return prev
	}
	t.byName[s.Name] = s
	t.order = append(t.order, s.Name)
	return s
}

// Get returns the named struct, or nil.
func (t *Table) Get(name string) *Struct {
	return t.byName[name]
}

// Has reports whether name is a known struct.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns struct names in first-seen order.
func (t *Table) Names() []string {
	return t.order
}

// All returns the structs in first-seen order.
func (t *Table) All() []*Struct {
	out := make([]*Struct, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Len returns the number of structs.
func (t *Table) Len() int { return len(t.order) }
