package tessera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorSkipsRedundantState(t *testing.T) {
	dev := newFakeDevice(4)
	shaders := newCache(dev, 0)
	x := newExecutor(dev, 4)
	ta, tb := newTex("a"), newTex("b")
	vb, ib := &fakeBuffer{}, &fakeBuffer{}

	groups := []BatchGroup{
		{Start: 0, Count: 3, Textures: []Texture{ta, tb}, BlendMode: BlendNormal},
		{Start: 3, Count: 1, Textures: []Texture{ta}, BlendMode: BlendAdd},
		{Start: 4, Count: 2, Textures: []Texture{ta, tb}, BlendMode: BlendAdd},
	}
	var stats FrameStats
	require.NoError(t, x.execute(groups, vb, ib, shaders, &stats))

	assert.Equal(t, []BlendMode{BlendNormal, BlendAdd}, dev.blends)
	assert.Equal(t, []bindCall{{0, ta}, {1, tb}}, dev.binds)
	require.Len(t, dev.draws, 3)
	assert.Equal(t, 0, dev.draws[0].FirstIndex)
	assert.Equal(t, 18, dev.draws[0].IndexCount)
	assert.Equal(t, 18, dev.draws[1].FirstIndex)
	assert.Equal(t, 6, dev.draws[1].IndexCount)
	assert.Equal(t, 24, dev.draws[2].FirstIndex)
	assert.Equal(t, 2, dev.draws[0].Shader.Units())
	assert.Equal(t, 1, dev.draws[1].Shader.Units())

	assert.Equal(t, 3, stats.DrawCalls)
	assert.Equal(t, 2, stats.TextureBinds)
	assert.Equal(t, 2, stats.BlendChanges)
	assert.Equal(t, 3, stats.ShaderSwitches)
}

func TestExecutorInvalidateForcesRebind(t *testing.T) {
	dev := newFakeDevice(2)
	shaders := newCache(dev, 0)
	x := newExecutor(dev, 2)
	ta := newTex("a")
	groups := []BatchGroup{{Count: 1, Textures: []Texture{ta}, BlendMode: BlendNormal}}
	var stats FrameStats

	require.NoError(t, x.execute(groups, &fakeBuffer{}, &fakeBuffer{}, shaders, &stats))
	require.NoError(t, x.execute(groups, &fakeBuffer{}, &fakeBuffer{}, shaders, &stats))
	assert.Len(t, dev.binds, 1)
	assert.Len(t, dev.blends, 1)

	x.invalidate()
	require.NoError(t, x.execute(groups, &fakeBuffer{}, &fakeBuffer{}, shaders, &stats))
	assert.Len(t, dev.binds, 2)
	assert.Len(t, dev.blends, 2)
}
