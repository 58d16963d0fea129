package doc

import (
	"os"
	"strings"
	"testing"
)

const bladeUnit = `// Tiny blade unit.
// Second line.

struct Blade {
    int edge;
    // forged blade count
    int @forged = 4;

    // sharpen by n
    // in place
    void @hone(Blade *self, int n){
        self->edge += n;
    };

    int @edgeOf(Blade *b){
        return b->edge;
    };
};
`

func TestExtract_FileDoc(t *testing.T) {
	fd, err := Extract(bladeUnit, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	if fd.Doc != "Tiny blade unit.\nSecond line." {
		t.Errorf("file doc = %q", fd.Doc)
	}
	if fd.Path != "test.d" {
		t.Errorf("path = %q", fd.Path)
	}
}

func TestExtract_StructDoc(t *testing.T) {
	src := `// A blade.
// Cuts things.
struct Blade {
    int edge;
};
`
	fd, err := Extract(src, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	if len(fd.Structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(fd.Structs))
	}
	s := fd.Structs[0]
	if s.Name != "Blade" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Doc != "A blade.\nCuts things." {
		t.Errorf("doc = %q", s.Doc)
	}
	if s.Line != 3 {
		t.Errorf("line = %d", s.Line)
	}
	if len(s.Fields) != 1 || s.Fields[0] != "int edge" {
		t.Errorf("fields = %v", s.Fields)
	}
	// Glued to the struct, so not file-level doc.
	if fd.Doc != "" {
		t.Errorf("file doc = %q", fd.Doc)
	}
}

func TestExtract_MethodDoc(t *testing.T) {
	fd, err := Extract(bladeUnit, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	if len(fd.Structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(fd.Structs))
	}
	methods := fd.Structs[0].Methods
	if len(methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(methods))
	}

	hone := methods[0]
	if hone.Name != "Blade.hone" {
		t.Errorf("name = %q", hone.Name)
	}
	if hone.Signature != "void Blade@hone(Blade *self, int n)" {
		t.Errorf("signature = %q", hone.Signature)
	}
	if hone.Doc != "sharpen by n\nin place" {
		t.Errorf("doc = %q", hone.Doc)
	}
	if hone.Line != 9 {
		t.Errorf("line = %d", hone.Line)
	}

	edgeOf := methods[1]
	if edgeOf.Signature != "int Blade@edgeOf(Blade *b)" {
		t.Errorf("signature = %q", edgeOf.Signature)
	}
	if edgeOf.Doc != "" {
		t.Errorf("doc = %q", edgeOf.Doc)
	}
	if edgeOf.Line != 15 {
		t.Errorf("line = %d", edgeOf.Line)
	}
}

func TestExtract_GlobalDoc(t *testing.T) {
	fd, err := Extract(bladeUnit, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	globals := fd.Structs[0].Globals
	if len(globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(globals))
	}
	g := globals[0]
	if g.Name != "Blade.forged" {
		t.Errorf("name = %q", g.Name)
	}
	if g.Signature != "int Blade@forged = 4" {
		t.Errorf("signature = %q", g.Signature)
	}
	if g.Doc != "forged blade count" {
		t.Errorf("doc = %q", g.Doc)
	}
	if g.Line != 6 {
		t.Errorf("line = %d", g.Line)
	}
}

func TestExtract_BlankLineBreaksAttachment(t *testing.T) {
	src := `// This is orphaned.

struct Box {
    void @open(Box *self){
    };
};
`
	fd, err := Extract(src, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	if fd.Doc != "This is orphaned." {
		t.Errorf("file doc = %q", fd.Doc)
	}
	if fd.Structs[0].Doc != "" {
		t.Errorf("struct doc = %q", fd.Structs[0].Doc)
	}
	if fd.Structs[0].Methods[0].Doc != "" {
		t.Errorf("method doc = %q", fd.Structs[0].Methods[0].Doc)
	}
}

func TestExtract_PointerReturnSignature(t *testing.T) {
	src := `struct Node {
    Node *next;
    Node *@tail(Node *self, code){
        return self->next;
    };
};
`
	fd, err := Extract(src, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	sig := fd.Structs[0].Methods[0].Signature
	if sig != "Node *Node@tail(Node *self, code)" {
		t.Errorf("signature = %q", sig)
	}
}

func TestExtract_Unterminated(t *testing.T) {
	if _, err := Extract("struct Bad {\n    int x;\n", "bad.d"); err == nil {
		t.Fatal("expected error for unterminated struct")
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/unit.d"
	if err := os.WriteFile(path, []byte(bladeUnit), 0644); err != nil {
		t.Fatal(err)
	}

	fd, err := ExtractFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Path != path {
		t.Errorf("path = %q", fd.Path)
	}
	if len(fd.Structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(fd.Structs))
	}

	if _, err := ExtractFile(dir + "/missing.d"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLookupSymbol(t *testing.T) {
	fd, err := Extract(bladeUnit, "test.d")
	if err != nil {
		t.Fatal(err)
	}

	doc, sig, found := LookupSymbol(fd, "Blade")
	if !found {
		t.Fatal("Blade not found")
	}
	if sig != "struct Blade { int edge }" {
		t.Errorf("sig = %q", sig)
	}
	if doc != "" {
		t.Errorf("doc = %q", doc)
	}

	doc, sig, found = LookupSymbol(fd, "Blade.hone")
	if !found {
		t.Fatal("Blade.hone not found")
	}
	if doc != "sharpen by n\nin place" {
		t.Errorf("doc = %q", doc)
	}
	if sig != "void Blade@hone(Blade *self, int n)" {
		t.Errorf("sig = %q", sig)
	}

	// The dialect spelling resolves too.
	doc, sig, found = LookupSymbol(fd, "Blade@forged")
	if !found {
		t.Fatal("Blade@forged not found")
	}
	if doc != "forged blade count" {
		t.Errorf("doc = %q", doc)
	}
	if sig != "int Blade@forged = 4" {
		t.Errorf("sig = %q", sig)
	}

	if _, _, found = LookupSymbol(fd, "missing"); found {
		t.Error("expected missing to not be found")
	}
	if _, _, found = LookupSymbol(fd, "Blade.missing"); found {
		t.Error("expected Blade.missing to not be found")
	}
}

func TestFormatFile(t *testing.T) {
	fd, err := Extract(bladeUnit, "test.d")
	if err != nil {
		t.Fatal(err)
	}
	out := FormatFile(fd)

	for _, want := range []string{
		"Tiny blade unit.\nSecond line.\n\n",
		"struct Blade { int edge }\n",
		"int Blade@forged = 4\n    forged blade count\n",
		"void Blade@hone(Blade *self, int n)\n    sharpen by n\n    in place\n",
		"int Blade@edgeOf(Blade *b)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("output does not end with newline")
	}
}

func TestFormatSymbol(t *testing.T) {
	out := FormatSymbol("does a thing", "void Blade@hone(Blade *self)")
	want := "void Blade@hone(Blade *self)\n    does a thing\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out = FormatSymbol("", "struct Blade")
	if out != "struct Blade\n" {
		t.Errorf("got %q", out)
	}
}
