package tessera

// slotRecord is one texture unit in the allocator arena.
type slotRecord struct {
	tex Texture
	gen uint64 // tick at which tex was (re)assigned to this unit
}

// slotAllocator maps textures to texture units for one flush. A slot is valid
// for grouping only while its generation equals the current tick, so
// advancing the tick invalidates every assignment without clearing the arena.
// The arena itself mirrors what the units will hold once the previous group
// has been drawn, which lets consecutive groups keep their bindings.
type slotAllocator struct {
	slots  []slotRecord
	tick   uint64
	used   int // slots claimed at tick
	cursor int // round-robin eviction start
}

func newSlotAllocator(units int) *slotAllocator {
	return &slotAllocator{slots: make([]slotRecord, units)}
}

// reset starts a flush at tick, seeding the arena from the textures bound in
// the physical units.
func (a *slotAllocator) reset(tick uint64, bound []Texture) {
	for i := range a.slots {
		var t Texture
		if i < len(bound) {
			t = bound[i]
		}
		a.slots[i] = slotRecord{tex: t}
	}
	a.advance(tick)
}

// advance opens a new group at tick, keeping the arena contents.
func (a *slotAllocator) advance(tick uint64) {
	a.tick = tick
	a.used = 0
}

// assign returns the unit for t at the current tick. ok is false when every
// unit is already claimed by another texture at this tick.
func (a *slotAllocator) assign(t Texture) (slot int, ok bool) {
	b := t.Base()
	if b.gen == a.tick {
		return int(b.slot), true
	}
	if a.used >= len(a.slots) {
		return -1, false
	}

	// Unit still holding t: claim it and skip the rebind. The tag is a hint;
	// the arena is scanned when it is stale.
	if s := int(b.slot); s >= 0 && s < len(a.slots) && sameTexture(a.slots[s].tex, t) {
		return a.claim(s, t), true
	}
	for s := range a.slots {
		if sameTexture(a.slots[s].tex, t) {
			return a.claim(s, t), true
		}
	}

	for s := range a.slots {
		if a.slots[s].tex == nil {
			return a.claim(s, t), true
		}
	}

	n := len(a.slots)
	for k := 0; k < n; k++ {
		s := (a.cursor + k) % n
		if a.slots[s].gen != a.tick {
			a.cursor = (s + 1) % n
			return a.claim(s, t), true
		}
	}
	return -1, false
}

func (a *slotAllocator) claim(s int, t Texture) int {
	a.slots[s] = slotRecord{tex: t, gen: a.tick}
	b := t.Base()
	b.gen = a.tick
	b.slot = int32(s)
	a.used++
	return s
}

// units returns the arena prefix a group claiming up to highest must bind.
func (a *slotAllocator) units(highest int, dst []Texture) []Texture {
	for s := 0; s <= highest; s++ {
		dst = append(dst, a.slots[s].tex)
	}
	return dst
}
