package chat

import (
	"log/slog"
	"time"
)

// Option configures a service.
type Option func(*options)

type options struct {
	log   *slog.Logger
	clock func() time.Time
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock replaces the time source. Pass the Now of one shared Clock to
// every service so their timestamps stay ordered.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func newOptions(opts []Option) options {
	o := options{
		log:   slog.New(slog.DiscardHandler),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// now returns the current time as stored: UTC, millisecond precision (BSON dates).
func (o options) now() time.Time {
	return o.clock().UTC().Truncate(time.Millisecond)
}
