// Package format renders parse results for the command line: the syntax
// tree as JSON or as an s-expression, the token stream, and diagnostics.
package format

import (
	"encoding"

	"github.com/jorgsowa/php-parser/php/parser"
)

// Encoder writes one parse result. MarshalText returns the encoding of the
// most recently encoded result.
type Encoder interface {
	encoding.TextMarshaler
	Encode(res *parser.Result) error
}

// Option configures an encoder.
type Option func(*options)

type options struct {
	positions bool
}

// WithPositions adds line:column positions next to byte spans.
func WithPositions() Option {
	return func(o *options) {
		o.positions = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
