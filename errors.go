package quantiles

import "github.com/pkg/errors"

var (
	// ErrEmptyStream is returned when quantiles are requested before any
	// value was added.
	ErrEmptyStream = errors.New("no values observed")

	// ErrInvalidValue is returned by Add for NaN and infinite values.
	ErrInvalidValue = errors.New("value is not finite")

	// ErrInvalidConfig is returned by New when an option is out of range.
	ErrInvalidConfig = errors.New("invalid estimator configuration")

	// ErrInvariantViolation marks a corrupted level hierarchy. It is only
	// ever raised through panic.
	ErrInvariantViolation = errors.New("level invariant violated")
)

func invariantf(format string, args ...interface{}) {
	panic(errors.Wrapf(ErrInvariantViolation, format, args...))
}
