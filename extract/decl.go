package extract

import (
	"regexp"
	"strings"

	"github.com/atc-lang/atc/meta"
)

// Declaration grammar shared by struct-field parsing and variable
// scanning: [const] [unsigned] TYPE [STARS] NAME [ARRAY] [= INIT] ;
// Whitespace is required between TYPE and the star run or name.
var declPattern = regexp.MustCompile(
	`^[ \t]*(const\s+)?(unsigned\s+)?([A-Za-z_]\w*)\s+((?:\*\s*)*)([A-Za-z_]\w*)\s*(\[\s*\w*\s*\])?\s*(=\s*[^;]*)?;`)

// Statement keywords that the declaration grammar must not mistake for a
// type token (`return sum;` is not a declaration of sum).
var declKeywords = map[string]bool{
	"return":   true,
	"typedef":  true,
	"struct":   true,
	"else":     true,
	"break":    true,
	"continue": true,
	"goto":     true,
	"case":     true,
	"do":       true,
	"sizeof":   true,
}

// Decl is one matched variable declaration.
type Decl struct {
	Const        bool
	Unsigned     bool
	Type         string // base type token, qualifiers excluded
	PointerLevel int
	Name         string
	ArrayDim     string // including brackets, empty if none
	Initializer  string // including '=', trimmed, empty if none
	TypeStart    int    // byte span of the base type token in the line
	TypeEnd      int
}

// FullType returns the qualifiers joined with the base type, the form
// stored on struct fields.
func (d *Decl) FullType() string {
	parts := make([]string, 0, 3)
	if d.Const {
		parts = append(parts, "const")
	}
	if d.Unsigned {
		parts = append(parts, "unsigned")
	}
	parts = append(parts, d.Type)
	return strings.Join(parts, " ")
}

// ParseDecl matches the declaration grammar at the start of a line
// (leading indentation allowed). Text after the terminating semicolon is
// ignored, so a declaration followed by more code on the same line still
// matches.
func ParseDecl(line string) (*Decl, bool) {
	loc := declPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return line[loc[2*i]:loc[2*i+1]]
	}
	typ := group(3)
	if declKeywords[typ] {
		return nil, false
	}
	return &Decl{
		Const:        group(1) != "",
		Unsigned:     group(2) != "",
		Type:         typ,
		PointerLevel: strings.Count(group(4), "*"),
		Name:         group(5),
		ArrayDim:     strings.TrimSpace(group(6)),
		Initializer:  strings.TrimSpace(group(7)),
		TypeStart:    loc[6],
		TypeEnd:      loc[7],
	}, true
}

var identPattern = regexp.MustCompile(`[A-Za-z_]\w*`)

// NormalizeRef rewrites the base identifier of a type reference to its
// `_t` alias when known reports it as a struct name, preserving
// qualifiers and pointer stars ("const Dog *" → "const Dog_t *"). The
// base is the last identifier in the reference, so qualifier keywords
// are never touched. Unknown names pass through, which also makes the
// rewrite idempotent: "Dog_t" is not a struct name and stays put.
func NormalizeRef(ref string, known func(string) bool) string {
	locs := identPattern.FindAllStringIndex(ref, -1)
	if len(locs) == 0 {
		return ref
	}
	last := locs[len(locs)-1]
	base := ref[last[0]:last[1]]
	if !known(base) {
		return ref
	}
	return ref[:last[0]] + meta.Alias(base) + ref[last[1]:]
}
