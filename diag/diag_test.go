package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with line",
			err:  &Error{Kind: UnresolvedSymbol, Snippet: "a@add(5)", Line: 12},
			want: `line 12: unresolved symbol: "a@add(5)"`,
		},
		{
			name: "without line",
			err:  &Error{Kind: UnterminatedBlock, Snippet: "struct Foo {"},
			want: `unterminated block: "struct Foo {"`,
		},
		{
			name: "snippet trimmed",
			err:  &Error{Kind: UnknownMethod, Snippet: "  b@inc(1)  ", Line: 3},
			want: `line 3: unknown method: "b@inc(1)"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorTruncatesLongSnippet(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "abcdefgh"
	}
	e := &Error{Kind: UnknownType, Snippet: long}
	assert.Contains(t, e.Error(), "...")
	assert.Less(t, len(e.Error()), len(long))
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	cause := Errorf(UnknownMethod, 7, "x@missing(%d)", 1)
	wrapped := fmt.Errorf("transforming unit: %w", cause)

	var de *Error
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, UnknownMethod, de.Kind)
	assert.Equal(t, 7, de.Line)
	assert.Equal(t, `x@missing(1)`, de.Snippet)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unterminated block", UnterminatedBlock.String())
	assert.Equal(t, "unknown type", UnknownType.String())
	assert.Equal(t, "unknown method", UnknownMethod.String())
	assert.Equal(t, "unresolved symbol", UnresolvedSymbol.String())
}

func TestListAccumulatesInOrder(t *testing.T) {
	var l List
	assert.True(t, l.Empty())

	l.Warnf("extract", 4, "malformed header treated as field")
	l.Warnf("resolve", 9, "call to %s has %d args, expected %d", "Foo_add", 3, 2)

	ws := l.Warnings()
	require.Len(t, ws, 2)
	assert.Equal(t, "extract", ws[0].Stage)
	assert.Equal(t, "extract: line 4: malformed header treated as field", ws[0].String())
	assert.Equal(t, "resolve: line 9: call to Foo_add has 3 args, expected 2", ws[1].String())
	assert.False(t, l.Empty())
}

func TestListMerge(t *testing.T) {
	var a, b List
	a.Warnf("extract", 1, "one")
	b.Warnf("resolve", 2, "two")
	a.Merge(&b)
	a.Merge(nil)

	require.Len(t, a.Warnings(), 2)
	assert.Equal(t, "one", a.Warnings()[0].Message)
	assert.Equal(t, "two", a.Warnings()[1].Message)
}
