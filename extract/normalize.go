package extract

import "github.com/atc-lang/atc/meta"

// Normalize rewrites every struct-typed reference inside the table to
// its typedef alias ("Dog" → "Dog_t") ahead of emission. The known-name
// predicate spans the whole table, so mutual and forward references
// between structs are all resolved in a single pass, and a reference
// that already carries the alias is left alone.
func Normalize(table *meta.Table) {
	known := table.Has
	for _, st := range table.All() {
		for i := range st.Fields {
			st.Fields[i].Type = NormalizeRef(st.Fields[i].Type, known)
		}
		for _, m := range st.Methods {
			m.ReturnType = NormalizeRef(m.ReturnType, known)
			for i := range m.Params {
				m.Params[i].Type = NormalizeRef(m.Params[i].Type, known)
			}
		}
		for _, g := range st.Globals {
			g.Type = NormalizeRef(g.Type, known)
		}
	}
}
