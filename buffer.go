package quantiles

import "sort"

// buffer holds up to maxSize values of a single level.
type buffer struct {
	vec     []float64
	maxSize int
	sorted  bool
}

func newBuffer(maxSize int) buffer {
	return buffer{
		vec:     make([]float64, 0, maxSize),
		maxSize: maxSize,
		sorted:  true,
	}
}

func (b *buffer) push(v float64) {
	if b.isFull() {
		invariantf("push into full buffer of size %d", b.maxSize)
	}
	b.vec = append(b.vec, v)
	b.sorted = false
}

// sort orders the buffer ascending. Only the insertion levels ever need it,
// everything above level 1 is written sorted by collapse.
func (b *buffer) sort() {
	if b.sorted {
		return
	}
	sort.Float64s(b.vec)
	b.sorted = true
}

// set replaces the contents with the sorted values in vals.
func (b *buffer) set(vals []float64) {
	if len(vals) > b.maxSize {
		invariantf("level write of %d values exceeds capacity %d", len(vals), b.maxSize)
	}
	b.vec = append(b.vec[:0], vals...)
	b.sorted = true
}

func (b *buffer) size() int {
	return len(b.vec)
}

func (b *buffer) isFull() bool {
	return len(b.vec) >= b.maxSize
}

func (b *buffer) clear() {
	b.vec = b.vec[:0]
	b.sorted = true
}

// slot is one entry of the level hierarchy. A slot that was never allocated
// is absent; an allocated slot stays present, possibly empty, until reset.
type slot struct {
	buf     buffer
	present bool
}

// levels is the hierarchy of buffers addressed by level number. Level 0 and
// 1 take raw values, level k >= 2 holds values of weight 2^(k-1).
type levels struct {
	slots    []*slot
	capacity int
}

func newLevels(capacity int) levels {
	return levels{capacity: capacity}
}

// ensure allocates level l, and any missing slot below it as absent. Slots
// are held by pointer so buffers handed out stay valid while the hierarchy
// grows.
func (ls *levels) ensure(l int) *buffer {
	for len(ls.slots) <= l {
		ls.slots = append(ls.slots, &slot{})
	}
	s := ls.slots[l]
	if !s.present {
		s.buf = newBuffer(ls.capacity)
		s.present = true
	}
	return &s.buf
}

// get returns level l if it was allocated.
func (ls *levels) get(l int) (*buffer, bool) {
	if l >= len(ls.slots) || !ls.slots[l].present {
		return nil, false
	}
	return &ls.slots[l].buf, true
}

func (ls *levels) depth() int {
	return len(ls.slots)
}

func (ls *levels) buffered() int {
	n := 0
	for _, s := range ls.slots {
		n += s.buf.size()
	}
	return n
}

func (ls *levels) reset() {
	ls.slots = nil
}

// levelWeight is the number of observations a single value at level l
// stands for.
func levelWeight(l int) int64 {
	if l <= 1 {
		return 1
	}
	return int64(1) << uint(l-1)
}

// collapse merges the sorted, equally sized a and b and keeps every other
// element in merge order, starting with the first. On equal values the
// element from b is taken first. The ascending result is written to out,
// which must not alias a or b, and returned.
func collapse(a, b, out []float64, order CollapseOrder) []float64 {
	n := len(a)
	if len(b) != n {
		invariantf("collapse of unequal buffers (%d, %d)", len(a), len(b))
	}
	if cap(out) < n {
		out = make([]float64, n)
	}
	out = out[:n]

	switch order {
	case CollapseAscending:
		ia, ib, w := 0, 0, 0
		for step := 0; ia < n || ib < n; step++ {
			var v float64
			if ia >= n || (ib < n && a[ia] >= b[ib]) {
				v = b[ib]
				ib++
			} else {
				v = a[ia]
				ia++
			}
			if step%2 == 0 {
				out[w] = v
				w++
			}
		}
	default:
		ia, ib, w := n-1, n-1, n-1
		for step := 0; ia >= 0 || ib >= 0; step++ {
			var v float64
			if ia < 0 || (ib >= 0 && b[ib] >= a[ia]) {
				v = b[ib]
				ib--
			} else {
				v = a[ia]
				ia--
			}
			if step%2 == 0 {
				out[w] = v
				w--
			}
		}
	}
	return out
}
