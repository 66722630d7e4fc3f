// Package combine turns a project tree into a single text snapshot: a
// structure diagram followed by the framed contents of every included file
// and a summary of everything that was left out.
package combine

import (
	"go.uber.org/zap"
)

// Generator produces snapshots against one filesystem and configuration.
// It holds no state between runs.
type Generator struct {
	fs       FileSystemProvider
	config   ConfigSource
	progress ProgressSink
	logger   *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithProgress routes progress updates to sink.
func WithProgress(sink ProgressSink) Option {
	return func(g *Generator) {
		if sink != nil {
			g.progress = sink
		}
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator returns a Generator reading files through fsys and options
// through config. A nil config means default options.
func NewGenerator(fsys FileSystemProvider, config ConfigSource, opts ...Option) *Generator {
	g := &Generator{
		fs:       fsys,
		config:   config,
		progress: nopProgress{},
		logger:   zap.NewNop(),
	}
	if g.config == nil {
		g.config = StaticConfig{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
