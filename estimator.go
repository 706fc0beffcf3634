package quantiles

import (
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/axiomhq/mpquantiles/internal/options"
)

// Estimator approximates the quantiles of a stream of float64 values in a
// single pass, after Munro and Paterson. Values are kept in a hierarchy of
// fixed size buffers; two full buffers of one level are merged and halved
// into the level above, so memory grows logarithmically with the stream.
//
// An Estimator is not safe for concurrent use.
type Estimator struct {
	numQuantiles int
	capacity     int
	count        int64
	min          float64
	max          float64
	levels       levels
	scratch      [2][]float64
	order        CollapseOrder
	logger       log.Logger
}

// New returns an Estimator reporting numQuantiles cut-points, the exact
// minimum and maximum included. numQuantiles below 2 is raised to 2.
func New(numQuantiles int, opts ...Option) (*Estimator, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if numQuantiles < 2 {
		numQuantiles = 2
	}
	capacity := bufferCapacity(numQuantiles, cfg.maxTotal)

	return &Estimator{
		numQuantiles: numQuantiles,
		capacity:     capacity,
		levels:       newLevels(capacity),
		order:        cfg.order,
		logger:       cfg.logger,
	}, nil
}

// NewDefault returns an Estimator sized for MaxTotalElements.
func NewDefault(numQuantiles int) *Estimator {
	e, err := New(numQuantiles)
	if err != nil {
		panic(err)
	}
	return e
}

// Add records v. NaN and infinite values are rejected with ErrInvalidValue
// and leave the estimator unchanged.
func (e *Estimator) Add(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Wrapf(ErrInvalidValue, "add %v", v)
	}

	if e.count == 0 || v < e.min {
		e.min = v
	}
	if e.count == 0 || v > e.max {
		e.max = v
	}

	// Both insertion buffers are full: fold them upwards before placing v.
	if e.count > 0 && e.count%(2*int64(e.capacity)) == 0 {
		e.promote()
	}

	l0 := e.levels.ensure(0)
	l1 := e.levels.ensure(1)
	if !l0.isFull() {
		l0.push(v)
	} else {
		l1.push(v)
	}
	e.count++
	return nil
}

// promote collapses the two insertion buffers into level 2 and carries the
// result upwards until it lands on an empty level.
func (e *Estimator) promote() {
	l0 := e.levels.ensure(0)
	l1 := e.levels.ensure(1)
	if !l0.isFull() || !l1.isFull() {
		invariantf("promote with insertion levels at %d and %d of %d", l0.size(), l1.size(), e.capacity)
	}
	l0.sort()
	l1.sort()

	carry := collapse(l1.vec, l0.vec, e.scratch[0], e.order)
	e.scratch[0] = carry
	l0.clear()
	l1.clear()

	lvl := 2
	for ; ; lvl++ {
		dst := e.levels.ensure(lvl)
		if dst.size() == 0 {
			dst.set(carry)
			break
		}
		if !dst.isFull() {
			invariantf("level %d holds %d of %d values", lvl, dst.size(), e.capacity)
		}
		// Alternate scratch slices so the output never aliases the carry.
		next := &e.scratch[(lvl-1)%2]
		*next = collapse(dst.vec, carry, *next, e.order)
		carry = *next
		dst.clear()
	}

	level.Debug(e.logger).Log("msg", "collapsed insertion buffers", "to_level", lvl, "count", e.count)
}

// Clear drops every buffered value. The buffer capacity is kept.
func (e *Estimator) Clear() {
	e.levels.reset()
	e.count = 0
	e.min = 0
	e.max = 0
}

// Count returns the number of values added since creation or the last Clear.
func (e *Estimator) Count() int64 {
	return e.count
}

// Min returns the smallest value added, or 0 when empty.
func (e *Estimator) Min() float64 {
	return e.min
}

// Max returns the largest value added, or 0 when empty.
func (e *Estimator) Max() float64 {
	return e.max
}

// NumQuantiles returns the number of values Quantiles reports.
func (e *Estimator) NumQuantiles() int {
	return e.numQuantiles
}

// BufferCapacity returns the size of each level buffer.
func (e *Estimator) BufferCapacity() int {
	return e.capacity
}

// Epsilon returns the targeted rank error as a fraction of Count.
func (e *Estimator) Epsilon() float64 {
	return 1 / (float64(e.numQuantiles) - 1)
}

// Depth returns the number of allocated levels.
func (e *Estimator) Depth() int {
	return e.levels.depth()
}

// Buffered returns the number of values held over all levels.
func (e *Estimator) Buffered() int {
	return e.levels.buffered()
}
