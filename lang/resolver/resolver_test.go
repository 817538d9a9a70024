package resolver

import (
	"testing"

	"github.com/loamlang/loam/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocal(t *testing.T) {
	s := NewCompileScope(nil)
	s.Define("x", false)

	res, ok := s.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, Resolution{Class: Local, Index: 0}, res)
}

func TestResolveGlobalFallsThrough(t *testing.T) {
	s := NewCompileScope(nil)
	_, ok := s.Resolve("undefined_name")
	assert.False(t, ok)
}

func TestResolveUpvalueFromImmediateParent(t *testing.T) {
	outer := NewCompileScope(nil)
	outer.Define("x", false)
	inner := NewCompileScope(outer)

	res, ok := inner.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, Resolution{Class: Upvalue, Index: 0}, res)
	assert.True(t, outer.locals[0].CapturedByInner)
	assert.Equal(t, []machine.UpvalueSource{{FromParentLocal: true, Index: 0}}, inner.Upvalues())
}

func TestResolveUpvalueChainsThroughIntermediateScope(t *testing.T) {
	outer := NewCompileScope(nil)
	outer.Define("x", false)
	middle := NewCompileScope(outer)
	inner := NewCompileScope(middle)

	res, ok := inner.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, Upvalue, res.Class)

	// middle must have synthesized its own upvalue pointing at outer's
	// local, and inner's upvalue must point at middle's upvalue, not
	// directly at outer's local.
	require.Len(t, middle.upvalues, 1)
	assert.Equal(t, machine.UpvalueSource{FromParentLocal: true, Index: 0}, middle.upvalues[0].Source)
	require.Len(t, inner.upvalues, 1)
	assert.Equal(t, machine.UpvalueSource{FromParentLocal: false, Index: 0}, inner.upvalues[0].Source)
}

func TestResolveCachesRepeatedUpvalueLookup(t *testing.T) {
	outer := NewCompileScope(nil)
	outer.Define("x", false)
	inner := NewCompileScope(outer)

	res1, _ := inner.Resolve("x")
	res2, _ := inner.Resolve("x")
	assert.Equal(t, res1, res2)
	assert.Len(t, inner.upvalues, 1)
}

func TestDefineIsRefMarksLocal(t *testing.T) {
	s := NewCompileScope(nil)
	l := s.Define("x", true)
	assert.True(t, l.IsRef)
}
