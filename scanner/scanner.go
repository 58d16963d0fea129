// Package scanner provides brace-depth-aware scanning for the atc
// transform pipeline. It encapsulates balanced-block extraction (struct
// bodies, method bodies, call argument spans), eliminating the need for
// every pipeline stage to re-implement depth counting with its own
// bespoke patterns.
//
// Brace characters inside string/char literals and comments are not
// special-cased; the input dialect is simple enough that this is a
// documented limitation rather than a correctness requirement.
package scanner

import (
	"regexp"
	"strings"

	"github.com/atc-lang/atc/diag"
)

// CodeScanner iterates byte-by-byte over source text, tracking the
// current line number and brace nesting depth. Callers check Depth()
// instead of maintaining their own counters.
type CodeScanner struct {
	src   string
	pos   int
	line  int
	depth int
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, line: 1}
}

// Next advances to the next byte, updating line and depth state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	switch ch {
	case '\n':
		s.line++
	case '{':
		s.depth++
	case '}':
		s.depth--
	}
	return ch, true
}

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Line returns the current 1-based line number.
func (s *CodeScanner) Line() int { return s.line }

// Depth returns the brace nesting depth after processing the current
// byte: 1 just after an opening brace, 0 just after its closing brace.
func (s *CodeScanner) Depth() int { return s.depth }

// Src returns the full source text being scanned.
func (s *CodeScanner) Src() string { return s.src }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LookingAt checks if src[pos:] starts with the given prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// Skip advances past n bytes without returning them. Line/depth state is
// updated for each skipped byte. Returns the number of bytes actually
// skipped (may be less than n at end of input).
func (s *CodeScanner) Skip(n int) int {
	skipped := 0
	for i := 0; i < n; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// closeFor maps an opening delimiter to its closing counterpart.
func closeFor(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return 0
}

// LineAt returns the 1-based line number of byte offset pos in src.
func LineAt(src string, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return 1 + strings.Count(src[:pos], "\n")
}

// lineAround returns the full text of the line containing pos, for
// error snippets.
func lineAround(src string, pos int) string {
	if pos >= len(src) {
		pos = len(src) - 1
	}
	if pos < 0 {
		return ""
	}
	start := strings.LastIndexByte(src[:pos], '\n') + 1
	end := strings.IndexByte(src[pos:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : pos+end]
}

// Balanced scans forward from an opening delimiter at src[open] ('{',
// '(' or '[') counting matching delimiters of the same kind until the
// depth returns to zero. It returns the exact substring between the
// opening and matching closing delimiter, and the offset immediately
// past the closing delimiter. Nesting may be arbitrarily deep.
//
// Fails with a diag.UnterminatedBlock error when end of input is reached
// before the depth returns to zero.
func Balanced(src string, open int) (string, int, error) {
	openCh := src[open]
	closeCh := closeFor(openCh)
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, &diag.Error{
		Kind:    diag.UnterminatedBlock,
		Snippet: lineAround(src, open),
		Line:    LineAt(src, open),
	}
}

// Block is one header-matched balanced block found in source text.
type Block struct {
	Start     int      // offset of the header match
	BodyStart int      // offset just past the opening brace
	BodyEnd   int      // offset of the closing brace
	End       int      // offset just past the closing brace and any trailing ';'
	Header    []string // header submatches (regexp groups, [0] = full match)
	Body      string   // text between the braces
	Line      int      // 1-based line of the header start
}

// NextBlock finds the first match of header at or after offset from and
// scans the balanced body that follows. The header pattern must match up
// to and including the opening brace. An immediately trailing ';' (with
// optional intervening spaces or tabs) is consumed into End.
//
// Returns nil with a nil error when no further match exists.
func NextBlock(src string, header *regexp.Regexp, from int) (*Block, error) {
	loc := header.FindStringSubmatchIndex(src[from:])
	if loc == nil {
		return nil, nil
	}
	start := from + loc[0]
	open := from + loc[1] - 1 // header ends with the opening brace
	body, after, err := Balanced(src, open)
	if err != nil {
		return nil, err
	}

	end := after
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	if end < len(src) && src[end] == ';' {
		end++
	} else {
		end = after
	}

	groups := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, src[from+loc[i]:from+loc[i+1]])
	}

	return &Block{
		Start:     start,
		BodyStart: open + 1,
		BodyEnd:   after - 1,
		End:       end,
		Header:    groups,
		Body:      body,
		Line:      LineAt(src, start),
	}, nil
}
