package stdio

import (
	"io"
	"log/slog"
	"os"
)

type config struct {
	in  io.Reader
	out io.Writer
	log *slog.Logger
}

func defaultConfig() config {
	return config{in: os.Stdin, out: os.Stdout, log: slog.Default()}
}

// Option customizes a Handler. Nil arguments leave the default in place.
type Option func(*config)

// WithIO replaces both streams. It is shorthand for WithReader and WithWriter.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(c *config) {
		WithReader(r)(c)
		WithWriter(w)(c)
	}
}

// WithReader replaces the input stream, os.Stdin by default.
func WithReader(r io.Reader) Option {
	return func(c *config) {
		if r != nil {
			c.in = r
		}
	}
}

// WithWriter replaces the output stream, os.Stdout by default. Nothing but
// protocol frames is ever written to it.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithLogger sets the diagnostic logger. It should not write to the
// protocol stream.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
