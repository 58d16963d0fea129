package transpiler

import (
	"regexp"
	"strings"

	"github.com/atc-lang/atc/meta"
)

// rewriteGlobals replaces remaining Struct@member references with the
// aggregate access form (Struct_globals.member). A reference directly
// followed by an opening paren is a call site and belongs to the call
// rewriter, never here. Runs once per struct, once per global member;
// the rewritten form contains no @ so the pass is idempotent.
func rewriteGlobals(src string, table *meta.Table) string {
	for _, st := range table.All() {
		for _, g := range st.Globals {
			pat := regexp.MustCompile(`\b` + st.Name + `@` + g.Name + `\b`)
			repl := "(" + st.Name + "_globals." + g.Name + ")"
			src = replaceUnlessCalled(src, pat, repl)
		}
	}
	return src
}

func replaceUnlessCalled(src string, pat *regexp.Regexp, repl string) string {
	locs := pat.FindAllStringIndex(src, -1)
	if locs == nil {
		return src
	}
	var out strings.Builder
	prev := 0
	for _, loc := range locs {
		if loc[1] < len(src) && src[loc[1]] == '(' {
			continue
		}
		out.WriteString(src[prev:loc[0]])
		out.WriteString(repl)
		prev = loc[1]
	}
	out.WriteString(src[prev:])
	return out.String()
}

// rewriteCasts aliases the struct name inside C-style casts, any
// pointer depth including none, keeping the exact whitespace and star
// sequence between the parens.
func rewriteCasts(src string, table *meta.Table) string {
	for _, name := range table.Names() {
		pat := regexp.MustCompile(`\(([ \t]*)` + name + `((?:[ \t]*\*)*[ \t]*)\)`)
		src = pat.ReplaceAllString(src, `(${1}`+meta.Alias(name)+`${2})`)
	}
	return src
}

// rewriteFuncPtrs replaces surviving bare Struct@method references,
// such as a method assigned as a function pointer value, with the
// parenthesized lowered function name.
func rewriteFuncPtrs(src string, table *meta.Table) string {
	for _, st := range table.All() {
		for _, m := range st.Methods {
			pat := regexp.MustCompile(`\b` + st.Name + `@` + m.Name + `\b`)
			src = pat.ReplaceAllLiteralString(src, "("+st.Name+"_"+m.Name+")")
		}
	}
	return src
}
