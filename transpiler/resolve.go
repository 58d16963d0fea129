package transpiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atc-lang/atc/diag"
	"github.com/atc-lang/atc/extract"
	"github.com/atc-lang/atc/meta"
	"github.com/atc-lang/atc/scanner"
)

// Call site: optional leading dereference stars glued to the receiver,
// then RECEIVER@METHOD and an opening paren. The argument span is
// scanned for balance separately, so nested parens inside arguments do
// not cut the list short.
var callPattern = regexp.MustCompile(`(\**)\b([A-Za-z_]\w*)@([A-Za-z_]\w*)\s*\(`)

// resolver walks the struct-expanded text line by line, tracking brace
// scopes and variable bindings, and rewrites @ call sites into plain C
// calls. It is deliberately blind to strings and comments: a call site
// inside a commented-out line is rewritten all the same.
type resolver struct {
	table  *meta.Table
	warns  *diag.List
	scopes []map[string]*meta.Binding
}

func newResolver(table *meta.Table, warns *diag.List) *resolver {
	r := &resolver{table: table, warns: warns}
	r.pushScope()
	return r
}

func (r *resolver) pushScope() {
	r.scopes = append(r.scopes, make(map[string]*meta.Binding))
}

// popScope drops the innermost scope. The root scope holding top-level
// declarations is never popped, so stray closing braces cannot empty
// the stack.
func (r *resolver) popScope() {
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

func (r *resolver) declareVar(d *extract.Decl) {
	r.scopes[len(r.scopes)-1][d.Name] = &meta.Binding{
		Name:         d.Name,
		Type:         d.Type,
		PointerLevel: d.PointerLevel,
	}
}

func (r *resolver) lookupVar(name string) *meta.Binding {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			return b
		}
	}
	return nil
}

// rewrite processes the whole unit. The root scope is seeded with every
// top-level declaration up front, so a call early in the unit resolves
// file-scope variables declared further down.
func (r *resolver) rewrite(src string) (string, error) {
	r.seedTopLevel(src)
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		out, err := r.rewriteLine(line, i+1)
		if err != nil {
			return "", err
		}
		lines[i] = out
	}
	return strings.Join(lines, "\n"), nil
}

// seedTopLevel records declarations found at brace depth zero into the
// root scope. Lines inside struct or function bodies are skipped.
func (r *resolver) seedTopLevel(src string) {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		if depth == 0 {
			if d, ok := extract.ParseDecl(line); ok {
				r.declareVar(d)
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
	}
}

// rewriteLine applies the scope transitions and rewrites for one line.
// Closing braces before the first opening brace pop first, so a line
// like "} else {" ends one scope before starting the next. The
// declaration is recorded before call rewriting, letting a call on the
// declaration line see the just-declared name; the binding keeps the
// bare struct name while the declared type in the output line gains its
// typedef alias.
func (r *resolver) rewriteLine(line string, lineNo int) (string, error) {
	opens := strings.Count(line, "{")
	closes := strings.Count(line, "}")
	leading := leadingCloses(line)
	for i := 0; i < leading; i++ {
		r.popScope()
	}
	for i := 0; i < opens; i++ {
		r.pushScope()
	}

	if d, ok := extract.ParseDecl(line); ok {
		r.declareVar(d)
		if r.table.Has(d.Type) {
			line = line[:d.TypeStart] + meta.Alias(d.Type) + line[d.TypeEnd:]
		}
	}

	out, err := r.rewriteCalls(line, lineNo)
	if err != nil {
		return "", err
	}

	for i := 0; i < closes-leading; i++ {
		r.popScope()
	}
	return out, nil
}

// leadingCloses counts closing braces before the first opening brace.
func leadingCloses(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			return n
		case '}':
			n++
		}
	}
	return n
}

// rewriteCalls replaces every call site in text, left to right.
// Arguments are rewritten recursively before the enclosing call is
// assembled, so nested @ calls inside argument lists resolve too.
func (r *resolver) rewriteCalls(text string, lineNo int) (string, error) {
	at := 0
	for {
		loc := callPattern.FindStringSubmatchIndex(text[at:])
		if loc == nil {
			return text, nil
		}
		start := at + loc[0]
		open := at + loc[1] - 1
		stars := loc[3] - loc[2]
		recv := text[at+loc[4] : at+loc[5]]
		method := text[at+loc[6] : at+loc[7]]

		args, after, err := scanner.Balanced(text, open)
		if err != nil {
			r.warns.Warnf("resolve", lineNo, "call %s@%s is not closed on its line, left unchanged", recv, method)
			at = open + 1
			continue
		}

		call, err := r.resolveCall(recv, method, stars, args, text, lineNo)
		if err != nil {
			return "", err
		}
		text = text[:start] + call + text[after:]
		at = start + len(call)
	}
}

// resolveCall builds the replacement text for one call site per the
// receiver rules: an in-scope binding wins over a struct name, a bare
// struct name makes a static call, and anything else is unresolvable.
func (r *resolver) resolveCall(recv, method string, stars int, args, line string, lineNo int) (string, error) {
	structName := recv
	level := 0
	static := false
	if b := r.lookupVar(recv); b != nil {
		structName, level = b.Type, b.PointerLevel
	} else if r.table.Has(recv) {
		static = true
	} else {
		return "", diag.Errorf(diag.UnresolvedSymbol, lineNo, "%s", strings.TrimSpace(line))
	}

	st := r.table.Get(structName)
	if st == nil {
		return "", diag.Errorf(diag.UnknownType, lineNo, "%s", strings.TrimSpace(line))
	}
	m := st.Method(method)
	if m == nil {
		return "", diag.Errorf(diag.UnknownMethod, lineNo, "%s@%s", recv, method)
	}

	inner, err := r.rewriteCalls(args, lineNo)
	if err != nil {
		return "", err
	}
	r.checkArity(structName, m, static, inner, lineNo)

	if m.HasSelf && !static {
		var receiver string
		if net := level - stars - 1; net < 0 {
			receiver = "&" + recv
		} else {
			receiver = strings.Repeat("*", net) + recv
		}
		if strings.TrimSpace(inner) == "" {
			return fmt.Sprintf("%s_%s(%s)", structName, m.Name, receiver), nil
		}
		return fmt.Sprintf("%s_%s(%s, %s)", structName, m.Name, receiver, inner), nil
	}
	return fmt.Sprintf("%s_%s(%s)", structName, m.Name, inner), nil
}

// checkArity warns when the passed argument count does not match the
// declaration. An instance call supplies the self receiver implicitly;
// a static call to a self method must pass it explicitly.
func (r *resolver) checkArity(structName string, m *meta.Method, static bool, args string, lineNo int) {
	want := len(m.Params)
	if m.HasSelf && !static {
		want--
	}
	if got := countArgs(args); got != want {
		r.warns.Warnf("resolve", lineNo, "call to %s_%s passes %d argument(s), %d declared",
			structName, m.Name, got, want)
	}
}

// countArgs counts comma-separated arguments at nesting depth zero.
func countArgs(args string) int {
	if strings.TrimSpace(args) == "" {
		return 0
	}
	n, depth := 1, 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}
