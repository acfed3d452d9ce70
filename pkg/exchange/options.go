package exchange

type Option func(*Options)

// Options are per-call settings for order submission.
type Options struct {
	// ValidateOnly asks the exchange to check the order without placing it.
	ValidateOnly bool
}

func WithValidateOnly(v bool) Option {
	return func(o *Options) {
		o.ValidateOnly = v
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
