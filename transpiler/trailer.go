package transpiler

import (
	"fmt"
	"strings"
)

// Trailer renders the untransformed source as a comment block for
// appending after the generated output, one comment line per input
// line, under a slash rule and a provenance line naming both files.
func Trailer(outName, inName, src string) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("/", 39))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "// %s autogenerated from %s: \n", outName, inName)
	for _, line := range strings.Split(strings.TrimSuffix(src, "\n"), "\n") {
		sb.WriteString("// ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
