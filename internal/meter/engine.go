package meter

import (
	"log/slog"
)

// Engine reconstructs monthly meter readings and derives consumption from
// them. It holds no mutable state; one Engine may be shared by goroutines.
type Engine struct {
	toleranceDays int
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithToleranceDays sets how many days around a month end a reading still
// counts as an actual reading for that month.
func WithToleranceDays(days int) Option {
	return func(e *Engine) { e.toleranceDays = days }
}

// WithLogger sets the logger used for non-fatal data warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		toleranceDays: DefaultToleranceDays,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToleranceDays returns the configured exact-match window.
func (e *Engine) ToleranceDays() int { return e.toleranceDays }

// With returns a copy of the engine whose warnings carry the given attributes.
func (e *Engine) With(args ...any) *Engine {
	cp := *e
	cp.logger = e.logger.With(args...)
	return &cp
}
