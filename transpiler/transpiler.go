// Package transpiler lowers @-method source into plain C. A run works
// through fixed stages: struct extraction, type normalization, struct
// emission, scope-aware call resolution, then the global-access,
// typecast and function-pointer rewrites, in that order. Each stage
// consumes the text the previous stage produced; the struct metadata
// table built during extraction serves the later stages as a read-only
// oracle. The first failed stage aborts the run with no partial output.
package transpiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atc-lang/atc/diag"
	"github.com/atc-lang/atc/extract"
	"github.com/atc-lang/atc/meta"
)

// Transpiler orchestrates the transformation pipeline. The zero value
// transpiles with a hoisted preamble.
type Transpiler struct {
	// Inline emits typedefs and prototypes at each struct's position
	// instead of hoisting them into a preamble.
	Inline bool
}

// New returns a Transpiler with default settings.
func New() *Transpiler {
	return &Transpiler{}
}

// Result holds the output of one transformation run.
type Result struct {
	Preamble string      // hoisted typedefs and prototypes, empty in inline mode
	Code     string      // transformed unit text
	Structs  *meta.Table // extracted struct metadata
	Warnings []diag.Warning
}

// Output joins the preamble and the transformed code.
func (r *Result) Output() string {
	if r.Preamble == "" {
		return r.Code
	}
	return r.Preamble + "\n" + r.Code
}

// Transform runs the pipeline over one in-memory translation unit.
// Transforming already-transformed output is a no-op: emitted tag names
// are skipped during extraction, so nothing matches a second time.
func (t *Transpiler) Transform(src string) (*Result, error) {
	warns := &diag.List{}

	table, blocks, err := extract.Structs(src, warns)
	if err != nil {
		return nil, err
	}

	em := &emitter{table: table, inline: t.Inline}
	code, err := em.expand(src, blocks)
	if err != nil {
		return nil, err
	}

	code, err = newResolver(table, warns).rewrite(code)
	if err != nil {
		return nil, err
	}

	code = rewriteGlobals(code, table)
	code = rewriteCasts(code, table)
	code = rewriteFuncPtrs(code, table)

	return &Result{
		Preamble: em.preamble(),
		Code:     code,
		Structs:  table,
		Warnings: warns.Warnings(),
	}, nil
}

// TransformFile reads path and transforms its contents.
func (t *Transpiler) TransformFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := t.Transform(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}
