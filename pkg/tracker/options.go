package tracker

import "time"

type options struct {
	displayProgress bool
	isTerminal      bool
	now             func() time.Time
	resolver        Resolver
}

func newOptions(opts []Option) options {
	o := options{
		displayProgress: true,
		now:             time.Now,
		resolver:        Substring,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option is a functional option for configuring a tracker.
type Option func(*options)

// WithDisplayProgress controls whether rows are ever drawn.
// Default is true.
func WithDisplayProgress(enabled bool) Option {
	return func(o *options) {
		o.displayProgress = enabled
	}
}

// WithTerminal tells the tracker whether its output is an interactive
// terminal. Single never draws to a non-terminal.
// Default is false.
func WithTerminal(isTerminal bool) Option {
	return func(o *options) {
		o.isTerminal = isTerminal
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithResolver sets how Multi maps files to component names.
// Default is Substring.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}
