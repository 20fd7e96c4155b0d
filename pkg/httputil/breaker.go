package httputil

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// DefaultBreakerThreshold is the number of consecutive transport failures
// after which a host's breaker opens.
const DefaultBreakerThreshold = 5

// Breakers holds one circuit breaker per repository host.
// A zero threshold disables breaking.
type Breakers struct {
	threshold int64
	mu        sync.RWMutex
	breakers  map[string]*circuit.Breaker
}

// NewBreakers creates a breaker set that trips after threshold consecutive
// failures against a host.
func NewBreakers(threshold int) *Breakers {
	return &Breakers{
		threshold: int64(max(threshold, 0)),
		breakers:  make(map[string]*circuit.Breaker),
	}
}

func (b *Breakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	cb, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return cb
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.breakers[host]; ok {
		return cb
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	cb = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ConsecutiveTripFunc(b.threshold),
	})
	b.breakers[host] = cb
	return cb
}

// Do runs fn under the breaker of rawURL's host. Errors matching
// [ErrNotFound] pass through without counting as failures.
func (b *Breakers) Do(rawURL string, fn func() error) error {
	if b == nil || b.threshold == 0 {
		return fn()
	}

	host := hostOf(rawURL)
	cb := b.get(host)
	if !cb.Ready() {
		return fmt.Errorf("%w: %s", ErrBreakerOpen, host)
	}

	var notFound error
	err := cb.Call(func() error {
		err := fn()
		if errors.Is(err, ErrNotFound) {
			notFound = err
			return nil
		}
		return err
	}, 0)

	switch {
	case errors.Is(err, circuit.ErrBreakerOpen):
		return fmt.Errorf("%w: %s", ErrBreakerOpen, host)
	case err != nil:
		return err
	}
	return notFound
}

// State reports "open" or "closed" for every host seen so far.
func (b *Breakers) State() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, cb := range b.breakers {
		if cb.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
