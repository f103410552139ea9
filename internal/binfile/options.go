package binfile

import "io"

// Option configures a decode operation.
type Option func(*options)

type options struct {
	verbose io.Writer
}

func defaultOptions() *options {
	return &options{}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithVerbose prints each array's key and sizes to w while decoding,
// in the form "key: [13, 32, 32, 2]". A nil writer disables the output.
func WithVerbose(w io.Writer) Option {
	return func(o *options) {
		o.verbose = w
	}
}
