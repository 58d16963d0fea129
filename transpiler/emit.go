package transpiler

import (
	"fmt"
	"strings"

	"github.com/atc-lang/atc/extract"
	"github.com/atc-lang/atc/meta"
)

// emitter lowers extracted structs into plain C text. Each struct block
// is replaced in place by its lowered form: tagged struct definition,
// globals aggregate plus singleton instance, then one standalone
// function per method. In hoisted mode the typedefs and function
// prototypes go to a separate preamble instead, so call sites never
// depend on struct ordering.
type emitter struct {
	table  *meta.Table
	inline bool
	pre    cWriter
}

// expand replaces every struct block span in src with its lowered text.
// Type normalization runs first so all rendered references carry their
// typedef aliases. A struct already emitted under the same name renders
// as empty output, which keeps revisited text from emitting twice.
func (e *emitter) expand(src string, blocks []extract.StructBlock) (string, error) {
	extract.Normalize(e.table)

	var out strings.Builder
	prev := 0
	for _, b := range blocks {
		out.WriteString(src[prev:b.Start])
		prev = b.End
		st := e.table.Get(b.Name)
		if st == nil || st.State == meta.Emitted {
			continue
		}
		if st.State != meta.Extracted {
			return "", fmt.Errorf("struct %s: emitted before extraction (state %s)", b.Name, st.State)
		}
		out.WriteString(e.renderStruct(st))
		st.State = meta.Emitted
	}
	out.WriteString(src[prev:])
	return out.String(), nil
}

// preamble returns the hoisted typedef and prototype block, empty in
// inline mode or when no structs were emitted.
func (e *emitter) preamble() string {
	return e.pre.String()
}

func (e *emitter) renderStruct(st *meta.Struct) string {
	var w cWriter
	if !e.inline && e.pre.Len() > 0 {
		e.pre.Blank()
	}

	e.typedefLine(&w, st.Name)
	w.Linef("struct %s {", meta.Tag(st.Name))
	w.Indent()
	for _, f := range st.Fields {
		w.Linef("%s;", renderField(f))
	}
	w.Dedent()
	w.Linef("};")

	if len(st.Globals) > 0 {
		w.Blank()
		agg := st.Name + "_globals"
		e.typedefLine(&w, agg)
		w.Linef("struct %s {", meta.Tag(agg))
		w.Indent()
		for _, g := range st.Globals {
			for _, c := range g.Comment {
				w.Linef("%s", c)
			}
			w.Linef("%s;", renderGlobal(g))
		}
		w.Dedent()
		w.Linef("};")
		w.Linef("%s %s;", meta.Alias(agg), agg)
	}

	for _, m := range st.Methods {
		w.Blank()
		sig := renderSignature(st.Name, m)
		if !e.inline {
			e.pre.Linef("%s;", sig)
		}
		for _, c := range m.Comment {
			w.Linef("%s", c)
		}
		w.Linef("%s {", sig)
		if body := strings.TrimSpace(m.Body); body != "" {
			w.Raw(indentUnit + body + "\n")
		}
		w.Raw("}\n")
	}
	return w.String()
}

// typedefLine writes the typedef tying a tag name to its alias, into
// the replacement text inline or into the hoisted preamble otherwise.
func (e *emitter) typedefLine(w *cWriter, name string) {
	if e.inline {
		w.Linef("typedef struct %s %s;", meta.Tag(name), meta.Alias(name))
	} else {
		e.pre.Linef("typedef struct %s %s;", meta.Tag(name), meta.Alias(name))
	}
}

func renderField(f meta.Field) string {
	s := f.Type + " " + strings.Repeat("*", f.PointerLevel) + f.Name + f.ArrayDim
	if f.Initializer != "" {
		s += " " + f.Initializer
	}
	return s
}

// renderGlobal keeps the trailing declarator text verbatim, so array
// dimensions and initializers written on a global carry over into the
// aggregate field unchanged.
func renderGlobal(g *meta.Global) string {
	return g.Type + " " + strings.Repeat("*", g.PointerLevel) + g.Name + g.Trailing
}

func renderSignature(structName string, m *meta.Method) string {
	return fmt.Sprintf("%s %s%s_%s(%s)",
		m.ReturnType, strings.Repeat("*", m.ReturnPointerLevel),
		structName, m.Name, renderParams(m.Params))
}

func renderParams(ps []meta.Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		stars := strings.Repeat("*", p.PointerLevel)
		if p.Type == "" {
			parts[i] = stars + p.Name
		} else {
			parts[i] = p.Type + " " + stars + p.Name
		}
	}
	return strings.Join(parts, ", ")
}
