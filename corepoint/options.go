package corepoint

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-corepoint/profile"
)

type options struct {
	logger      logrus.FieldLogger
	profiler    *profile.Profiler
	maxWorkers  int
	scanWorkers int
}

// Option customizes a Detector.
type Option func(*options)

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return options{logger: l}
}

// WithLogger sets the diagnostics sink. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProfiler records per-phase timings into p.
func WithProfiler(p *profile.Profiler) Option {
	return func(o *options) {
		o.profiler = p
	}
}

// WithMaxWorkers bounds how many images DetectBatch processes at once in
// parallel mode. Zero or negative means GOMAXPROCS.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithScanWorkers bounds the goroutines used by the singularity scan of a
// single image. Zero or negative means GOMAXPROCS.
func WithScanWorkers(n int) Option {
	return func(o *options) {
		o.scanWorkers = n
	}
}
