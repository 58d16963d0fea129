package doc

import "strings"

// FormatFile formats a FileDoc for terminal display. Every struct and
// member is listed; doc text, where present, is indented underneath.
func FormatFile(fd *FileDoc) string {
	var sb strings.Builder

	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	for i := range fd.Structs {
		s := &fd.Structs[i]
		sb.WriteString(structSig(s))
		sb.WriteString("\n")
		if s.Doc != "" {
			indented(&sb, s.Doc)
		}
		for _, g := range s.Globals {
			sb.WriteString("\n")
			sb.WriteString(g.Signature)
			sb.WriteString("\n")
			if g.Doc != "" {
				indented(&sb, g.Doc)
			}
		}
		for _, m := range s.Methods {
			sb.WriteString("\n")
			sb.WriteString(m.Signature)
			sb.WriteString("\n")
			if m.Doc != "" {
				indented(&sb, m.Doc)
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatSymbol formats a single symbol lookup result.
func FormatSymbol(docStr, signature string) string {
	var sb strings.Builder
	sb.WriteString(signature)
	sb.WriteString("\n")
	if docStr != "" {
		indented(&sb, docStr)
	}
	return sb.String()
}

func indented(sb *strings.Builder, text string) {
	sb.WriteString("    ")
	sb.WriteString(strings.ReplaceAll(text, "\n", "\n    "))
	sb.WriteString("\n")
}
