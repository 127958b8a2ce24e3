package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures Store.
type Option func(*config)

type config struct {
	log          *zap.Logger
	notifier     Notifier
	registerer   prometheus.Registerer
	concealUnset bool
	now          func() time.Time
}

func defaultConfig() config {
	return config{
		log: zap.NewNop(),
		now: time.Now,
	}
}

// WithLogger sets logger. By default, or if l is nil, nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotifier sets the destination of the write events. By default, events
// are dropped.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithRegisterer sets registerer for the store metrics. By default, metrics
// are collected but not registered anywhere.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = r
	}
}

// WithConcealedUnset makes owner reads before the first write fail with
// ErrUnauthorized instead of ErrNotSet, so the response does not reveal
// whether the secret has ever been written.
func WithConcealedUnset() Option {
	return func(c *config) {
		c.concealUnset = true
	}
}

// WithClock sets the source of event timestamps. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}
