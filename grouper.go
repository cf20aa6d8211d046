package tessera

// grouper partitions the pending items of a flush into batch groups in a
// single greedy left-to-right pass. Items are never reordered.
type grouper struct {
	alloc  *slotAllocator
	groups []BatchGroup
	slots  []int     // resolved unit per kept item
	texBuf []Texture // backing store for the groups' texture lists
}

// group compacts away items whose texture is not ready, then splits the rest
// into groups. It returns the kept items (a prefix of items, reusing its
// storage), the groups over them, and the number of dropped items. The
// allocator is seeded from bound, the textures currently in the units.
func (g *grouper) group(items []DrawItem, bound []Texture) ([]DrawItem, []BatchGroup, int) {
	n := 0
	for i := range items {
		if items[i].Texture == nil || !items[i].Texture.Ready() {
			continue
		}
		if n != i {
			items[n] = items[i]
		}
		n++
	}
	dropped := len(items) - n
	for i := n; i < len(items); i++ {
		items[i] = DrawItem{}
	}
	items = items[:n]

	g.groups = g.groups[:0]
	g.texBuf = g.texBuf[:0]
	if n == 0 {
		return items, g.groups, dropped
	}
	if cap(g.slots) < n {
		g.slots = make([]int, n)
	}
	g.slots = g.slots[:n]

	g.alloc.reset(nextTick(), bound)
	cur := BatchGroup{BlendMode: items[0].blendKey()}
	highest := -1

	for i := range items {
		it := &items[i]
		mode := it.blendKey()
		if mode != cur.BlendMode {
			g.close(&cur, highest)
			g.alloc.advance(nextTick())
			cur = BatchGroup{Start: i, BlendMode: mode}
			highest = -1
		}
		slot, ok := g.alloc.assign(it.Texture)
		if !ok {
			g.close(&cur, highest)
			g.alloc.advance(nextTick())
			cur = BatchGroup{Start: i, BlendMode: mode}
			highest = -1
			// A fresh tick has every unit available.
			slot, _ = g.alloc.assign(it.Texture)
		}
		if slot > highest {
			highest = slot
		}
		g.slots[i] = slot
		cur.Count++
	}
	g.close(&cur, highest)
	return items, g.groups, dropped
}

func (g *grouper) close(cur *BatchGroup, highest int) {
	if cur.Count == 0 {
		return
	}
	start := len(g.texBuf)
	g.texBuf = g.alloc.units(highest, g.texBuf)
	cur.Textures = g.texBuf[start:len(g.texBuf):len(g.texBuf)]
	g.groups = append(g.groups, *cur)
}
