// Package extract scans a translation unit for struct definitions and
// splits each body into methods, per-type globals and plain fields.
//
// The split is grammar-driven and runs in a fixed order: method blocks
// are taken out first, then global declarations, and whatever remains is
// parsed line by line as fields. A body line that matches none of the
// grammars is dropped from the metadata (the emitter rebuilds struct
// bodies from metadata alone, so dropped lines do not survive into the
// output).
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atc-lang/atc/diag"
	"github.com/atc-lang/atc/meta"
	"github.com/atc-lang/atc/scanner"
)

var structPattern = regexp.MustCompile(`struct\s+([A-Za-z_]\w*)\s*\{`)

// Method header: RETTYPE [STARS] @NAME ( PARAMS ) {, with any directly
// preceding //-comment lines captured so they can be replayed above the
// lowered definition. A blank line between the comments and the header
// detaches them.
var methodPattern = regexp.MustCompile(
	`((?:[ \t]*//[^\n]*\n)+)?[ \t]*([A-Za-z_]\w*)\s+((?:\*\s*)*)@([A-Za-z_]\w*)\s*\(([^)]*)\)\s*\{`)

// Global declaration: [const] [unsigned] TYPE [STARS] @NAME TRAILING ;
// restricted to a single line past the name.
var globalPattern = regexp.MustCompile(
	`((?:[ \t]*//[^\n]*\n)+)?[ \t]*(const\s+)?(unsigned\s+)?([A-Za-z_]\w*)\s+((?:\*\s*)*)@([A-Za-z_]\w*)([^;\n]*);`)

// StructBlock records where one struct definition sits in the unit. The
// emitter replaces these spans in positional order.
type StructBlock struct {
	Name  string
	Start int // offset of the struct keyword
	End   int // offset just past the closing brace and trailing ';'
	Line  int
}

// Structs scans src for struct definitions and extracts their metadata.
// Block spans are returned in positional order, including repeated
// definitions of a name already seen (those are not re-extracted and are
// later replaced with empty output). Names ending in "_s" are reserved
// as emitted struct tags and are skipped entirely, which keeps a second
// run over already-transformed output from re-extracting anything.
func Structs(src string, warns *diag.List) (*meta.Table, []StructBlock, error) {
	table := meta.NewTable()
	var blocks []StructBlock
	at := 0
	for {
		b, err := scanner.NextBlock(src, structPattern, at)
		if err != nil {
			return nil, nil, err
		}
		if b == nil {
			break
		}
		at = b.End
		name := b.Header[1]
		if strings.HasSuffix(name, "_s") {
			continue
		}
		blk := StructBlock{Name: name, Start: b.Start, End: b.End, Line: b.Line}
		if table.Has(name) {
			warns.Warnf("extract", b.Line, "struct %s redefined, keeping the first definition", name)
			blocks = append(blocks, blk)
			continue
		}
		st, err := parseBody(name, b.Body, scanner.LineAt(src, b.BodyStart), warns)
		if err != nil {
			return nil, nil, fmt.Errorf("struct %s: %w", name, err)
		}
		st.Line = b.Line
		table.Add(st)
		blocks = append(blocks, blk)
	}
	return table, blocks, nil
}

// parseBody splits one struct body into methods, globals and fields.
// line0 is the unit line the body starts on, used for diagnostics.
func parseBody(name, body string, line0 int, warns *diag.List) (*meta.Struct, error) {
	st := &meta.Struct{Name: name, State: meta.Extracted}
	selfPattern := regexp.MustCompile(
		`^\s*` + regexp.QuoteMeta(name) + `(?:_t)?\s*\*\s*[A-Za-z_]\w*\s*$`)

	// Methods come out first so their bodies cannot feed the global or
	// field grammars. The scan jumps whole balanced blocks, so nothing
	// inside a method body is ever matched as a header.
	rest := body
	at := 0
	var spans [][2]int
	for {
		b, err := scanner.NextBlock(rest, methodPattern, at)
		if err != nil {
			return nil, err
		}
		if b == nil {
			break
		}
		at = b.End
		spans = append(spans, [2]int{b.Start, b.End})
		st.AddMethod(&meta.Method{
			Name:               b.Header[4],
			ReturnType:         b.Header[2],
			ReturnPointerLevel: strings.Count(b.Header[3], "*"),
			Params:             parseParams(b.Header[5]),
			HasSelf:            selfPattern.MatchString(firstParam(b.Header[5])),
			Body:               b.Body,
			Comment:            commentLines(b.Header[1]),
			Line:               line0 + b.Line - 1,
		})
	}
	rest = blankSpans(rest, spans)

	spans = spans[:0]
	for _, loc := range globalPattern.FindAllStringSubmatchIndex(rest, -1) {
		group := func(i int) string {
			if loc[2*i] < 0 {
				return ""
			}
			return rest[loc[2*i]:loc[2*i+1]]
		}
		spans = append(spans, [2]int{loc[0], loc[1]})
		st.AddGlobal(&meta.Global{
			Name:         group(6),
			Type:         joinType(group(2), group(3), group(4)),
			PointerLevel: strings.Count(group(5), "*"),
			Comment:      commentLines(group(1)),
			Trailing:     group(7),
			Line:         line0 + scanner.LineAt(rest, loc[0]) - 1,
		})
	}
	rest = blankSpans(rest, spans)

	for i, line := range strings.Split(rest, "\n") {
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		d, ok := ParseDecl(line)
		if !ok {
			if strings.Contains(text, "@") {
				warns.Warnf("extract", line0+i, "struct %s: unrecognized @ declaration dropped: %q", name, text)
			}
			continue
		}
		st.Fields = append(st.Fields, meta.Field{
			Type:         d.FullType(),
			PointerLevel: d.PointerLevel,
			Name:         d.Name,
			ArrayDim:     d.ArrayDim,
			Initializer:  d.Initializer,
		})
	}
	return st, nil
}

// blankSpans deletes the given byte spans but keeps their newlines, so
// line numbers computed over the result still match the original body.
func blankSpans(s string, spans [][2]int) string {
	if len(spans) == 0 {
		return s
	}
	var out strings.Builder
	prev := 0
	for _, sp := range spans {
		out.WriteString(s[prev:sp[0]])
		out.WriteString(strings.Repeat("\n", strings.Count(s[sp[0]:sp[1]], "\n")))
		prev = sp[1]
	}
	out.WriteString(s[prev:])
	return out.String()
}

// firstParam returns the raw text of the first comma-separated
// parameter, used for self detection before any reformatting.
func firstParam(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		return raw[:i]
	}
	return raw
}

var paramName = regexp.MustCompile(`([A-Za-z_]\w*)\s*$`)

// parseParams splits a raw parameter list on commas. Each parameter
// takes its name from the trailing identifier; pointer stars anywhere
// before the name count toward the pointer level and the remaining
// tokens form the type. A bare identifier is a typeless parameter and
// passes through as the name only. The declared spelling is not kept;
// parameters are re-rendered canonically as "TYPE *name".
func parseParams(raw string) []meta.Param {
	var params []meta.Param
	for _, seg := range strings.Split(raw, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		loc := paramName.FindStringSubmatchIndex(seg)
		if loc == nil {
			params = append(params, meta.Param{Name: seg})
			continue
		}
		head := seg[:loc[2]]
		params = append(params, meta.Param{
			Type:         strings.Join(strings.Fields(strings.ReplaceAll(head, "*", " ")), " "),
			PointerLevel: strings.Count(head, "*"),
			Name:         seg[loc[2]:loc[3]],
		})
	}
	return params
}

// commentLines splits a captured comment prefix into trimmed lines.
func commentLines(raw string) []string {
	if raw == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func joinType(quals ...string) string {
	parts := make([]string, 0, len(quals))
	for _, q := range quals {
		q = strings.TrimSpace(q)
		if q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, " ")
}
