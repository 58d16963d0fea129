// Package doc extracts documentation from .d source files.
//
// Comments survive extraction untouched, so the doc surface is a read-only
// view over the same metadata the transform itself uses: struct fields,
// per-type globals and methods, each with the // block written directly
// above it. A blank line between a comment block and a declaration
// detaches the block.
package doc

import (
	"os"
	"strings"

	"github.com/atc-lang/atc/diag"
	"github.com/atc-lang/atc/extract"
	"github.com/atc-lang/atc/meta"
)

// FileDoc holds all extracted documentation for a single source file.
type FileDoc struct {
	Path    string
	Doc     string // file-level doc: top comment block separated from code by a blank line
	Structs []StructDoc
}

// StructDoc describes one struct and its members.
type StructDoc struct {
	Name    string
	Doc     string
	Fields  []string // rendered field declarations
	Globals []SymbolDoc
	Methods []SymbolDoc
	Line    int // 1-based line of the struct keyword
}

// SymbolDoc describes a method or per-type global.
type SymbolDoc struct {
	Name      string // qualified, e.g. "Blade.hone"
	Signature string // source spelling, e.g. "void Blade@hone(Blade *self, int n)"
	Doc       string
	Line      int
}

// ExtractFile reads a source file and extracts its documentation.
func ExtractFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data), path)
}

// Extract parses raw source and returns structured documentation.
func Extract(src, path string) (*FileDoc, error) {
	table, _, err := extract.Structs(src, &diag.List{})
	if err != nil {
		return nil, err
	}

	lines := strings.Split(src, "\n")
	fd := &FileDoc{Path: path, Doc: fileDoc(lines)}
	for _, s := range table.All() {
		fd.Structs = append(fd.Structs, structDoc(s, lines))
	}
	return fd, nil
}

// LookupSymbol finds a struct, method, or global by name. Member names may
// be spelled Struct.member or Struct@member.
func LookupSymbol(fd *FileDoc, name string) (doc string, signature string, found bool) {
	name = strings.ReplaceAll(name, "@", ".")
	structName, _, qualified := strings.Cut(name, ".")

	for i := range fd.Structs {
		s := &fd.Structs[i]
		if s.Name != structName {
			continue
		}
		if !qualified {
			return s.Doc, structSig(s), true
		}
		for _, m := range s.Methods {
			if m.Name == name {
				return m.Doc, m.Signature, true
			}
		}
		for _, g := range s.Globals {
			if g.Name == name {
				return g.Doc, g.Signature, true
			}
		}
	}
	return "", "", false
}

func structDoc(s *meta.Struct, lines []string) StructDoc {
	sd := StructDoc{
		Name: s.Name,
		Doc:  commentAbove(lines, s.Line),
		Line: s.Line,
	}
	for _, f := range s.Fields {
		sd.Fields = append(sd.Fields, fieldDecl(f))
	}
	for _, g := range s.Globals {
		sd.Globals = append(sd.Globals, SymbolDoc{
			Name:      s.Name + "." + g.Name,
			Signature: globalSig(s.Name, g),
			Doc:       docText(g.Comment),
			Line:      g.Line,
		})
	}
	for _, m := range s.Methods {
		sd.Methods = append(sd.Methods, SymbolDoc{
			Name:      s.Name + "." + m.Name,
			Signature: methodSig(s.Name, m),
			Doc:       docText(m.Comment),
			Line:      m.Line,
		})
	}
	return sd
}

// fileDoc returns the comment block at the very top of the file, provided
// a blank line separates it from the first code line. A block glued to a
// declaration belongs to that declaration instead.
func fileDoc(lines []string) string {
	var block []string
	for _, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(t, "//"):
			block = append(block, stripMarker(t))
		case t == "" && len(block) > 0:
			return strings.Join(block, "\n")
		default:
			return ""
		}
	}
	return strings.Join(block, "\n")
}

// commentAbove collects the contiguous // block directly above a 1-based
// line.
func commentAbove(lines []string, declLine int) string {
	var block []string
	for j := declLine - 2; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(t, "//") {
			break
		}
		block = append(block, stripMarker(t))
	}
	for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
		block[i], block[j] = block[j], block[i]
	}
	return strings.Join(block, "\n")
}

// stripMarker removes the leading // and at most one following space.
func stripMarker(line string) string {
	t := strings.TrimPrefix(strings.TrimSpace(line), "//")
	return strings.TrimPrefix(t, " ")
}

// docText joins the verbatim comment lines captured at extraction time.
func docText(comment []string) string {
	out := make([]string, 0, len(comment))
	for _, l := range comment {
		out = append(out, stripMarker(l))
	}
	return strings.Join(out, "\n")
}

// fieldDecl renders a field the way the source declares it.
func fieldDecl(f meta.Field) string {
	decl := f.Type + " " + strings.Repeat("*", f.PointerLevel) + f.Name + f.ArrayDim
	if f.Initializer != "" {
		decl += " " + f.Initializer
	}
	return decl
}

// globalSig renders a per-type global in qualified source spelling, e.g.
// "int Blade@forged = 4".
func globalSig(structName string, g *meta.Global) string {
	return g.Type + " " + strings.Repeat("*", g.PointerLevel) + structName + "@" + g.Name + g.Trailing
}

// methodSig renders a method in qualified source spelling, e.g.
// "void Blade@hone(Blade *self, int n)".
func methodSig(structName string, m *meta.Method) string {
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		stars := strings.Repeat("*", p.PointerLevel)
		if p.Type == "" {
			params = append(params, stars+p.Name)
		} else {
			params = append(params, p.Type+" "+stars+p.Name)
		}
	}
	return m.ReturnType + " " + strings.Repeat("*", m.ReturnPointerLevel) +
		structName + "@" + m.Name + "(" + strings.Join(params, ", ") + ")"
}

// structSig renders "struct Name { field, field }".
func structSig(s *StructDoc) string {
	sig := "struct " + s.Name
	if len(s.Fields) > 0 {
		sig += " { " + strings.Join(s.Fields, ", ") + " }"
	}
	return sig
}
