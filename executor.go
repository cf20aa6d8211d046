package tessera

// executor issues the draw calls of a flush and mirrors the GPU binding state
// so redundant blend, texture, and shader changes are skipped.
type executor struct {
	dev        Device
	bound      []Texture // physical unit table
	blend      BlendMode
	blendKnown bool
	shader     Shader
}

func newExecutor(dev Device, units int) *executor {
	return &executor{dev: dev, bound: make([]Texture, units)}
}

// execute draws groups from the vertex buffer vb with the static index buffer ib.
func (x *executor) execute(groups []BatchGroup, vb, ib Buffer, shaders *shaderCache, stats *FrameStats) error {
	for i := range groups {
		g := &groups[i]

		if !x.blendKnown || x.blend != g.BlendMode {
			if err := x.dev.SetBlendMode(g.BlendMode); err != nil {
				return err
			}
			x.blend = g.BlendMode
			x.blendKnown = true
			stats.BlendChanges++
		}

		for unit, tex := range g.Textures {
			if tex == nil || sameTexture(x.bound[unit], tex) {
				continue
			}
			if err := x.dev.BindTexture(unit, tex); err != nil {
				return err
			}
			x.bound[unit] = tex
			stats.TextureBinds++
		}

		sh, err := shaders.get(len(g.Textures))
		if err != nil {
			return err
		}
		if sh != x.shader {
			x.shader = sh
			stats.ShaderSwitches++
		}

		err = x.dev.DrawIndexed(DrawCall{
			Shader:     sh,
			Vertices:   vb,
			Indices:    ib,
			FirstIndex: g.Start * IndicesPerItem,
			IndexCount: g.Count * IndicesPerItem,
		})
		if err != nil {
			return err
		}
		stats.DrawCalls++
	}
	return nil
}

// invalidate forgets all mirrored state, forcing full rebinding on the next draw.
func (x *executor) invalidate() {
	for i := range x.bound {
		x.bound[i] = nil
	}
	x.blendKnown = false
	x.shader = nil
}
