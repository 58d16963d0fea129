package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMethodReplacesInPlace(t *testing.T) {
	s := &Struct{Name: "Dog"}
	s.AddMethod(&Method{Name: "bark", Body: "one"})
	s.AddMethod(&Method{Name: "fetch", Body: "two"})
	s.AddMethod(&Method{Name: "bark", Body: "three"})

	require.Len(t, s.Methods, 2)
	// Later declaration wins but keeps the original slot.
	assert.Equal(t, "bark", s.Methods[0].Name)
	assert.Equal(t, "three", s.Methods[0].Body)
	assert.Equal(t, "fetch", s.Methods[1].Name)
	assert.Equal(t, "three", s.Method("bark").Body)
	assert.Nil(t, s.Method("sit"))
}

func TestAddGlobalReplacesInPlace(t *testing.T) {
	s := &Struct{Name: "Dog"}
	s.AddGlobal(&Global{Name: "count", Type: "int"})
	s.AddGlobal(&Global{Name: "count", Type: "long"})

	require.Len(t, s.Globals, 1)
	assert.Equal(t, "long", s.Globals[0].Type)
	assert.Nil(t, s.Global("missing"))
}

func TestTableOrderAndLookup(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&Struct{Name: "B"})
	tbl.Add(&Struct{Name: "A"})

	assert.Equal(t, []string{"B", "A"}, tbl.Names())
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("A"))
	assert.False(t, tbl.Has("C"))
	assert.Nil(t, tbl.Get("C"))

	all := tbl.All()
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Name)
}

func TestTableAddKeepsFirst(t *testing.T) {
	tbl := NewTable()
	first := tbl.Add(&Struct{Name: "X", Line: 1})
	second := tbl.Add(&Struct{Name: "X", Line: 9})

	assert.Same(t, first, second)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1, tbl.Get("X").Line)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "Dog_t", Alias("Dog"))
	assert.Equal(t, "Dog_s", Tag("Dog"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unseen", Unseen.String())
	assert.Equal(t, "extracted", Extracted.String())
	assert.Equal(t, "emitted", Emitted.String())
}
