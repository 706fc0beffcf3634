package quantiles

import "math"

// Quantiles returns NumQuantiles ascending values: the exact minimum, the
// estimated boundaries for ranks i*Count/(NumQuantiles-1) for
// i = 1..NumQuantiles-2, and the exact maximum.
//
// It may be called at any time; the insertion buffers are sorted in place
// but no value is added or dropped, so repeated calls agree.
func (e *Estimator) Quantiles() ([]float64, error) {
	if e.count == 0 {
		return nil, ErrEmptyStream
	}

	if l0, ok := e.levels.get(0); ok {
		l0.sort()
	}
	if l1, ok := e.levels.get(1); ok {
		l1.sort()
	}

	out := make([]float64, 0, e.numQuantiles)
	out = append(out, e.min)

	// One cursor per level. Targets grow with i, so the cursors only move
	// forward and the whole walk reads every buffered value at most once.
	cursors := make([]int, e.levels.depth())
	var sum int64
	step := float64(e.count) / (float64(e.numQuantiles) - 1)
	for i := 1; i <= e.numQuantiles-2; i++ {
		target := int64(math.Ceil(float64(i) * step))
		for {
			smallest, lvl := e.max, -1
			for j := range cursors {
				buf, ok := e.levels.get(j)
				if !ok || cursors[j] >= buf.size() {
					continue
				}
				if v := buf.vec[cursors[j]]; !(smallest < v) {
					smallest, lvl = v, j
				}
			}
			if lvl < 0 {
				invariantf("rank walk exhausted at weight %d of target %d", sum, target)
			}

			w := levelWeight(lvl)
			if sum+w >= target {
				out = append(out, smallest)
				break
			}
			cursors[lvl]++
			sum += w
		}
	}

	return append(out, e.max), nil
}
