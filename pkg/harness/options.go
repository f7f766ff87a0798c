package harness

import "github.com/entrhq/senbot/pkg/logging"

type options struct {
	logger *logging.Logger
}

// Option configures a Registry or AffinityMap.
type Option func(*options)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
