// Package prom exposes a quantile estimator as a Prometheus collector.
package prom

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	quantiles "github.com/axiomhq/mpquantiles"
)

// CollectorOpts names the exported series, like prometheus.GaugeOpts.
type CollectorOpts struct {
	Namespace   string
	Subsystem   string
	Name        string
	Help        string
	ConstLabels prometheus.Labels
}

// Collector feeds observations into an Estimator and reports its current
// quantile boundaries on every scrape. It is safe for concurrent use.
type Collector struct {
	mtx sync.Mutex
	est *quantiles.Estimator

	boundary *prometheus.Desc
	count    *prometheus.Desc
	buffered *prometheus.Desc
	levels   *prometheus.Desc
}

// NewCollector returns a Collector backed by a new Estimator reporting
// numQuantiles boundaries.
func NewCollector(opts CollectorOpts, numQuantiles int, estOpts ...quantiles.Option) (*Collector, error) {
	est, err := quantiles.New(numQuantiles, estOpts...)
	if err != nil {
		return nil, err
	}

	fq := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	return &Collector{
		est: est,
		boundary: prometheus.NewDesc(fq+"_boundary",
			opts.Help, []string{"index"}, opts.ConstLabels),
		count: prometheus.NewDesc(fq+"_count",
			"Number of values observed", nil, opts.ConstLabels),
		buffered: prometheus.NewDesc(fq+"_buffered_values",
			"Number of values retained by the estimator", nil, opts.ConstLabels),
		levels: prometheus.NewDesc(fq+"_levels",
			"Number of allocated estimator levels", nil, opts.ConstLabels),
	}, nil
}

// Observe adds v to the estimator.
func (c *Collector) Observe(v float64) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.est.Add(v)
}

// Reset drops every observation.
func (c *Collector) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.est.Clear()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.boundary
	ch <- c.count
	ch <- c.buffered
	ch <- c.levels
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(c.est.Count()))
	ch <- prometheus.MustNewConstMetric(c.buffered, prometheus.GaugeValue, float64(c.est.Buffered()))
	ch <- prometheus.MustNewConstMetric(c.levels, prometheus.GaugeValue, float64(c.est.Depth()))

	bounds, err := c.est.Quantiles()
	if err != nil {
		// Nothing observed yet.
		return
	}
	for i, b := range bounds {
		ch <- prometheus.MustNewConstMetric(c.boundary, prometheus.GaugeValue, b, strconv.Itoa(i))
	}
}
