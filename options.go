package quantiles

import (
	"github.com/go-kit/log"
	"github.com/pkg/errors"

	"github.com/axiomhq/mpquantiles/internal/options"
)

// CollapseOrder selects the direction in which two full buffers are merged
// when they are halved into the next level.
type CollapseOrder int

const (
	// CollapseDescending merges from the largest element down and keeps
	// every other element starting with the maximum.
	CollapseDescending CollapseOrder = iota
	// CollapseAscending merges from the smallest element up and keeps
	// every other element starting with the minimum. This is the order
	// used by the szl emitter.
	CollapseAscending
)

func (o CollapseOrder) String() string {
	switch o {
	case CollapseDescending:
		return "descending"
	case CollapseAscending:
		return "ascending"
	default:
		return "unknown"
	}
}

// ParseCollapseOrder maps "descending" or "ascending" to a CollapseOrder.
func ParseCollapseOrder(s string) (CollapseOrder, error) {
	switch s {
	case "descending":
		return CollapseDescending, nil
	case "ascending":
		return CollapseAscending, nil
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown collapse order %q", s)
}

type config struct {
	maxTotal int64
	order    CollapseOrder
	logger   log.Logger
}

func defaultConfig() config {
	return config{
		maxTotal: MaxTotalElements,
		order:    CollapseDescending,
		logger:   log.NewNopLogger(),
	}
}

// Option configures an Estimator.
type Option = options.Option[*config]

// WithMaxTotalElements overrides MaxTotalElements when sizing buffers.
// Smaller ceilings give smaller buffers and are mostly useful in tests.
func WithMaxTotalElements(n int64) Option {
	return options.New(func(c *config) error {
		if n <= 0 || n > maxCeiling {
			return errors.Wrapf(ErrInvalidConfig, "max total elements %d out of range (0, 2^62]", n)
		}
		c.maxTotal = n
		return nil
	})
}

// WithCollapseOrder sets the merge direction used when halving buffers.
func WithCollapseOrder(o CollapseOrder) Option {
	return options.New(func(c *config) error {
		if o != CollapseDescending && o != CollapseAscending {
			return errors.Wrapf(ErrInvalidConfig, "unknown collapse order %d", int(o))
		}
		c.order = o
		return nil
	})
}

// WithLogger sets the logger receiving debug lines about collapse cascades.
func WithLogger(l log.Logger) Option {
	return options.New(func(c *config) error {
		if l == nil {
			return errors.Wrap(ErrInvalidConfig, "nil logger")
		}
		c.logger = l
		return nil
	})
}
