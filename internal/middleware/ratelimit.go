// Package middleware holds gRPC interceptors shared by the servers.
package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Limiter hands out one token bucket per key. Buckets idle for longer than
// the idle TTL are swept in the background.
type Limiter struct {
	every rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	doneOnce sync.Once
}

type bucket struct {
	*rate.Limiter
	used time.Time
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithIdleTTL sets how long an unused bucket is kept. Default 10 minutes.
func WithIdleTTL(d time.Duration) LimiterOption {
	return func(l *Limiter) { l.idle = d }
}

// WithClock replaces time.Now for bucket bookkeeping.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter allows perMinute events per key with the given burst and sweeps
// idle buckets every sweep. A non-positive perMinute means 60.
func NewLimiter(perMinute, burst int, sweep time.Duration, opts ...LimiterOption) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	l := &Limiter{
		every:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.sweepEvery(sweep)
	return l
}

func (l *Limiter) sweepEvery(d time.Duration) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.done:
			return
		}
	}
}

// Sweep drops the buckets not used within the idle TTL.
func (l *Limiter) Sweep() {
	cutoff := l.now().Add(-l.idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.used.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Tracked returns the number of live buckets.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Close stops the sweeper. Safe to call more than once.
func (l *Limiter) Close() {
	l.doneOnce.Do(func() { close(l.done) })
}

// Allow spends one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.used = now
	l.mu.Unlock()
	return b.AllowN(now, 1)
}

type usernameGetter interface{ GetUsername() string }

// requestKey is "user:<name>" for requests naming an account and the peer
// address otherwise.
func requestKey(ctx context.Context, req any) string {
	if ug, ok := req.(usernameGetter); ok {
		if name := ug.GetUsername(); name != "" {
			return "user:" + name
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return "addr:" + p.Addr.String()
	}
	return "unknown"
}

// UnaryInterceptor rejects calls to methods with ResourceExhausted once the
// caller's bucket is empty. Other methods pass through untouched.
func UnaryInterceptor(l *Limiter, methods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if methods[info.FullMethod] && !l.Allow(requestKey(ctx, req)) {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
