// Package tessera draws 2D sprite scenes with as few GPU draw calls as the
// device allows.
//
// The core is the [Engine]. Callers [Engine.Submit] fully resolved
// [DrawItem] quads; on [Engine.Flush] the engine drops items whose texture is
// not ready, splits the rest into contiguous [BatchGroup] runs that share a
// blend mode and fit the device's texture units, packs one interleaved vertex
// buffer, and issues one indexed draw per group. Items are never reordered,
// so the result is pixel-identical to drawing them one by one.
//
// The GPU is reached only through the [Device] interface. Two implementations
// ship with the module:
//
//   - tessera/softgpu rasterizes on the CPU and validates the generated WGSL
//     with naga. It backs the tests and the tessera-bench tool.
//   - tessera/ebitengpu draws on an Ebitengine image with Kage shaders.
//
// # Scene graph
//
// A [Scene] holds a tree of [Node] values. Children inherit their parent's
// transform and alpha; siblings draw in [Node.ZIndex] order. [Scene.Draw]
// turns visible sprites into draw items and hands them to an engine:
//
//	eng, err := tessera.NewEngine(dev, tessera.DefaultConfig())
//	if err != nil { ... }
//	scene := tessera.NewScene()
//	hero := tessera.NewSprite("hero", heroTex, tessera.TextureRegion{})
//	hero.SetPosition(100, 50)
//	scene.Root().AddChild(hero)
//	if err := scene.Draw(eng); err != nil { ... }
//
// Sprites can come from a TexturePacker atlas via [LoadAtlas] and be animated
// with gween tweens ([TweenPosition] and friends, registered with
// [Scene.Animate]). A [Camera] set with [Scene.SetCamera] maps world space
// to the framebuffer and skips sprites outside its viewport.
//
// # Lost contexts
//
// When the device reports a lost context every engine call returns
// [ErrContextLost]. After the owner recreates the context, [Engine.Restore]
// discards cached shaders and buffers so they are rebuilt on the next flush.
package tessera
