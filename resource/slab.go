package resource

type cell[T any] struct {
	value  T
	typeID uint32
	gen    uint32
	used   bool
}

// slab stores values in reusable slots. Not synchronized; Table locks it.
type slab[T any] struct {
	cells []cell[T]
	// free holds 1-based slot indices ready for reuse, most recent last.
	free []uint32
	live int
}

// insert stores value and returns its handle. It fails once every slot
// addressable by a handle is taken.
func (s *slab[T]) insert(typeID uint32, value T) (Handle, bool) {
	var slot uint32
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.cells) >= slotMask {
			return 0, false
		}
		s.cells = append(s.cells, cell[T]{})
		slot = uint32(len(s.cells))
	}

	c := &s.cells[slot-1]
	c.value = value
	c.typeID = typeID
	c.used = true
	s.live++
	return makeHandle(slot, c.gen), true
}

func (s *slab[T]) lookup(h Handle) (*cell[T], bool) {
	slot := h.Slot()
	if slot == 0 || int(slot) > len(s.cells) {
		return nil, false
	}
	c := &s.cells[slot-1]
	if !c.used || c.gen&genMask != h.Generation() {
		return nil, false
	}
	return c, true
}

// drop clears the slot behind h and bumps its generation.
func (s *slab[T]) drop(h Handle) (T, uint32, bool) {
	c, ok := s.lookup(h)
	if !ok {
		var zero T
		return zero, 0, false
	}

	value, typeID := c.value, c.typeID
	*c = cell[T]{gen: c.gen + 1}
	s.free = append(s.free, h.Slot())
	s.live--
	return value, typeID, true
}

// each visits live entries in slot order until fn returns false.
func (s *slab[T]) each(fn func(Handle, uint32, T) bool) {
	for i := range s.cells {
		c := &s.cells[i]
		if c.used && !fn(makeHandle(uint32(i+1), c.gen), c.typeID, c.value) {
			return
		}
	}
}

func (s *slab[T]) reset() {
	s.cells = nil
	s.free = nil
	s.live = 0
}
