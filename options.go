package vfcprobe

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hupe1980/vfcprobe/blobstore"
	"github.com/hupe1980/vfcprobe/export"
	"github.com/hupe1980/vfcprobe/internal/fs"
	"github.com/hupe1980/vfcprobe/internal/slots"
)

const (
	// EnvOutput names the environment variable holding the default export path.
	EnvOutput = "VFC_PROBES_OUTPUT"
	// EnvCapacity names the environment variable overriding the table capacity.
	EnvCapacity = "VFC_PROBES_CAPACITY"
)

// DefaultCapacity is the number of slots of a store created without WithCapacity.
const DefaultCapacity = slots.DefaultCapacity

// CollisionPolicy selects what Insert does when two keys share a slot.
type CollisionPolicy uint8

const (
	// CollisionAbort logs the collision and calls the exit function with
	// status 1. This is the default; a collision means the probe set or the
	// capacity is misconfigured and the recorded data cannot be trusted.
	CollisionAbort CollisionPolicy = iota
	// CollisionError returns *ErrHashCollision and keeps the process running.
	CollisionError
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionAbort:
		return "abort"
	case CollisionError:
		return "error"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", p)
	}
}

type options struct {
	capacity         int
	collisionPolicy  CollisionPolicy
	exit             func(code int)
	metricsCollector MetricsCollector
	logger           *Logger
	outputPath       string
	exportOptions    []export.Option
	catalog          blobstore.Catalog
	catalogSeries    string
	fs               fs.FileSystem
	err              error
}

// Option configures Store construction.
type Option func(*options)

// WithCapacity sets the number of slots. The capacity never changes afterwards
// except through Resize.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithCollisionPolicy selects how Insert reacts to a hash collision.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(o *options) {
		o.collisionPolicy = p
	}
}

// WithExitFunc replaces os.Exit as the function called by CollisionAbort.
// If the function returns, Insert returns the collision error.
func WithExitFunc(exit func(code int)) Option {
	return func(o *options) {
		if exit == nil {
			exit = os.Exit
		}
		o.exit = exit
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vfcprobe.NewJSONLogger(slog.LevelInfo)
//	s, _ := vfcprobe.New(vfcprobe.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithOutputPath sets the file written by DumpDefault.
func WithOutputPath(path string) Option {
	return func(o *options) {
		o.outputPath = path
	}
}

// WithExportOptions configures compression and throttling for every dump.
func WithExportOptions(optFns ...export.Option) Option {
	return func(o *options) {
		o.exportOptions = append(o.exportOptions, optFns...)
	}
}

// WithCatalog records every successful DumpTo and DumpAll in c under series.
func WithCatalog(c blobstore.Catalog, series string) Option {
	return func(o *options) {
		o.catalog = c
		o.catalogSeries = series
	}
}

// WithEnv reads VFC_PROBES_OUTPUT and VFC_PROBES_CAPACITY. Unset variables
// leave the current settings alone; an unparsable capacity makes New fail.
func WithEnv() Option {
	return func(o *options) {
		if path, ok := os.LookupEnv(EnvOutput); ok && path != "" {
			o.outputPath = path
		}
		if raw, ok := os.LookupEnv(EnvCapacity); ok && raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				o.err = fmt.Errorf("%w: %s=%q", ErrInvalidCapacity, EnvCapacity, raw)
				return
			}
			o.capacity = n
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		capacity:         DefaultCapacity,
		collisionPolicy:  CollisionAbort,
		exit:             os.Exit,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fs:               fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
