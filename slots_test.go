package tessera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAllocatorReusesValidSlot(t *testing.T) {
	a := newSlotAllocator(4)
	a.reset(nextTick(), nil)
	tex := newTex("a")

	s1, ok := a.assign(tex)
	require.True(t, ok)
	s2, ok := a.assign(tex)
	require.True(t, ok)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, a.used)
}

func TestSlotAllocatorFillsEmptyUnitsInOrder(t *testing.T) {
	a := newSlotAllocator(3)
	a.reset(nextTick(), nil)

	for want := 0; want < 3; want++ {
		got, ok := a.assign(newTex("t"))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := a.assign(newTex("overflow"))
	assert.False(t, ok, "fourth texture must not fit three units")
}

func TestSlotAllocatorAdvanceInvalidatesTags(t *testing.T) {
	a := newSlotAllocator(2)
	a.reset(nextTick(), nil)
	ta, tb := newTex("a"), newTex("b")
	a.assign(ta)
	a.assign(tb)

	a.advance(nextTick())
	assert.NotEqual(t, a.tick, ta.gen, "tag must be stale after advance")

	// Still resident: same unit, no eviction.
	s, ok := a.assign(tb)
	require.True(t, ok)
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, a.used)
}

func TestSlotAllocatorRoundRobinEviction(t *testing.T) {
	a := newSlotAllocator(2)
	a.reset(nextTick(), nil)
	a.assign(newTex("a"))
	a.assign(newTex("b"))

	a.advance(nextTick())
	s, ok := a.assign(newTex("c"))
	require.True(t, ok)
	assert.Equal(t, 0, s)
	s, ok = a.assign(newTex("d"))
	require.True(t, ok)
	assert.Equal(t, 1, s)

	a.advance(nextTick())
	s, ok = a.assign(newTex("e"))
	require.True(t, ok)
	assert.Equal(t, 0, s, "cursor wraps around")
}

func TestSlotAllocatorSeedsFromBoundUnits(t *testing.T) {
	ta, tb := newTex("a"), newTex("b")
	a := newSlotAllocator(3)
	a.reset(nextTick(), []Texture{nil, tb, ta})

	s, ok := a.assign(ta)
	require.True(t, ok)
	assert.Equal(t, 2, s, "texture already bound keeps its unit")

	s, ok = a.assign(newTex("c"))
	require.True(t, ok)
	assert.Equal(t, 0, s, "empty unit before eviction")
}

func TestSlotAllocatorUnits(t *testing.T) {
	a := newSlotAllocator(4)
	a.reset(nextTick(), nil)
	ta, tb := newTex("a"), newTex("b")
	a.assign(ta)
	a.assign(tb)

	got := a.units(1, nil)
	require.Len(t, got, 2)
	assert.Same(t, ta, got[0])
	assert.Same(t, tb, got[1])
}

func TestTicksAreSharedAcrossEngines(t *testing.T) {
	tex := newTex("shared")
	a := newSlotAllocator(2)
	b := newSlotAllocator(2)

	a.reset(nextTick(), nil)
	a.assign(tex)
	b.reset(nextTick(), nil)
	require.NotEqual(t, a.tick, b.tick)

	// The tag written by a must not look current to b.
	_, ok := b.assign(tex)
	require.True(t, ok)
	assert.Equal(t, 1, b.used)
	assert.Equal(t, b.tick, tex.gen)
}
