package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	quantiles "github.com/axiomhq/mpquantiles"
)

type config struct {
	numQuantiles int
	file         string
	bin          bool
	collapse     string
	logLevel     string
}

func main() {
	var cfg config
	flag.IntVar(&cfg.numQuantiles, "quantiles", 10, "number of quantile boundaries to report, min and max included")
	flag.StringVar(&cfg.file, "file", "", "file of whitespace separated numbers (default stdin)")
	flag.BoolVar(&cfg.bin, "bin", false, "after estimating, print the bin of every value in -file")
	flag.StringVar(&cfg.collapse, "collapse", "descending", "buffer collapse order: descending or ascending")
	flag.StringVar(&cfg.logLevel, "log.level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	logger := newLogger(cfg.logLevel)
	if err := run(cfg, os.Stdin, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "quantile estimation failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

func run(cfg config, stdin io.Reader, out io.Writer, logger log.Logger) (err error) {
	if cfg.bin && cfg.file == "" {
		return errors.New("-bin needs -file, stdin cannot be read twice")
	}
	order, err := quantiles.ParseCollapseOrder(cfg.collapse)
	if err != nil {
		return err
	}
	est, err := quantiles.New(cfg.numQuantiles,
		quantiles.WithCollapseOrder(order),
		quantiles.WithLogger(logger))
	if err != nil {
		return err
	}

	err = withInput(cfg.file, stdin, func(r io.Reader) error {
		return scanValues(r, logger, func(v float64) error {
			return est.Add(v)
		})
	})
	if err != nil {
		return err
	}

	bounds, err := est.Quantiles()
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "estimated quantiles", "count", est.Count(),
		"buffer_capacity", est.BufferCapacity(), "levels", est.Depth(), "buffered", est.Buffered())

	w := bufio.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); err == nil {
			err = errors.Wrap(ferr, "write output")
		}
	}()
	for i, b := range bounds {
		fmt.Fprintf(w, "%d\t%v\n", i, b)
	}
	if !cfg.bin {
		return nil
	}

	fmt.Fprintln(w)
	return withInput(cfg.file, stdin, func(r io.Reader) error {
		return scanValues(r, log.NewNopLogger(), func(v float64) error {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil
			}
			_, err := fmt.Fprintf(w, "%d\t%v\n", quantiles.Bin(bounds, v), v)
			return err
		})
	})
}

func withInput(file string, stdin io.Reader, fn func(io.Reader) error) error {
	if file == "" {
		return fn(stdin)
	}
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()
	return fn(f)
}

// scanValues calls fn for every number in r. Tokens that are not finite
// numbers are logged and skipped.
func scanValues(r io.Reader, logger log.Logger, fn func(float64) error) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		tok := sc.Text()
		v, err := strconv.ParseFloat(tok, 64)
		if err == nil {
			err = fn(v)
		}
		if errors.Is(err, quantiles.ErrInvalidValue) || errors.Is(err, strconv.ErrSyntax) || errors.Is(err, strconv.ErrRange) {
			level.Warn(logger).Log("msg", "skipping value", "token", tok, "err", err)
			continue
		}
		if err != nil {
			return err
		}
	}
	return errors.Wrap(sc.Err(), "read input")
}
