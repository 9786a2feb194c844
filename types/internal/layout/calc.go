package layout

// Node is what the calculator needs to know about one registered type.
type Node struct {
	Extends []uint32
	Size    uintptr
	ID      uint32
}

// Source resolves an ancestor handle to its Node.
type Source func(id uint32) (Node, bool)

// Slot is one sub-block of a flattened allocation.
type Slot struct {
	// Children are the slot indices of the direct ancestors' own sub-blocks,
	// in declaration order.
	Children []int
	Offset   uintptr
	// Size is header plus declared payload for this level only.
	Size   uintptr
	Type   uint32
	Parent int
	Depth  int
}

// Info is the precomputed layout of a type and its full ancestry.
type Info struct {
	// Index maps a type handle to the first matching slot in depth-first
	// pre-order (self, then each ancestor subtree in declaration order).
	Index map[uint32]int
	// Ancestors is the transitive ancestry, excluding the type itself.
	Ancestors map[uint32]struct{}
	// Slots are in allocation order: every ancestor block first, self last.
	// This is also construction order.
	Slots []Slot
	// Teardown lists slot indices in destruction order: self first, then
	// each ancestor subtree, last declared ancestor first.
	Teardown []int
	Size     uintptr
}

// Root returns the slot index of the type itself.
func (i Info) Root() int {
	return len(i.Slots) - 1
}

type Calculator struct {
	cache  map[uint32]Info
	header uintptr
}

func NewCalculator(header uintptr) *Calculator {
	return &Calculator{
		cache:  make(map[uint32]Info),
		header: header,
	}
}

// Calculate returns the layout for n, resolving ancestors through src.
// Ancestors must already be resolvable; results are cached by handle.
func (c *Calculator) Calculate(n Node, src Source) (Info, bool) {
	if cached, ok := c.cache[n.ID]; ok {
		return cached, true
	}

	var (
		slots  []Slot
		roots  []int
		offset uintptr
	)

	for _, anc := range n.Extends {
		an, ok := src(anc)
		if !ok {
			return Info{}, false
		}
		ai, ok := c.Calculate(an, src)
		if !ok {
			return Info{}, false
		}

		base := len(slots)
		for _, s := range ai.Slots {
			s.Offset += offset
			s.Depth++
			if s.Parent >= 0 {
				s.Parent += base
			}
			if len(s.Children) > 0 {
				children := make([]int, len(s.Children))
				for i, ch := range s.Children {
					children[i] = ch + base
				}
				s.Children = children
			}
			slots = append(slots, s)
		}
		roots = append(roots, base+ai.Root())
		offset += ai.Size
	}

	self := len(slots)
	for _, r := range roots {
		slots[r].Parent = self
	}
	slots = append(slots, Slot{
		Type:     n.ID,
		Offset:   offset,
		Size:     c.header + n.Size,
		Parent:   -1,
		Children: roots,
	})

	info := Info{
		Slots:     slots,
		Size:      offset + c.header + n.Size,
		Index:     make(map[uint32]int, len(slots)),
		Ancestors: make(map[uint32]struct{}, len(slots)-1),
	}

	var visit func(i int)
	visit = func(i int) {
		if _, seen := info.Index[slots[i].Type]; !seen {
			info.Index[slots[i].Type] = i
		}
		for _, ch := range slots[i].Children {
			visit(ch)
		}
	}
	visit(self)

	var teardown func(i int)
	teardown = func(i int) {
		info.Teardown = append(info.Teardown, i)
		children := slots[i].Children
		for j := len(children) - 1; j >= 0; j-- {
			teardown(children[j])
		}
	}
	teardown(self)

	for i := 0; i < self; i++ {
		info.Ancestors[slots[i].Type] = struct{}{}
	}

	c.cache[n.ID] = info
	return info, true
}

// Forget drops the cached layout for id.
func (c *Calculator) Forget(id uint32) {
	delete(c.cache, id)
}

// Header returns the per-level header size.
func (c *Calculator) Header() uintptr {
	return c.header
}
