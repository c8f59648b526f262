package utils

import (
	"fmt"
	"sync"
	"time"
)

// CircuitBreaker guards calls to a flaky external collaborator. It trips
// open after maxFailures consecutive failures and rejects calls until the
// cooldown has elapsed, after which a single trial call is let through.
type CircuitBreaker struct {
	name        string
	maxFailures uint32
	cooldown    time.Duration

	mutex    sync.Mutex
	failures uint32
	openedAt time.Time
}

func NewCircuitBreaker(name string, maxFailures uint32, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
	}
}

func (cb *CircuitBreaker) Execute(req func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := req()
	cb.afterRequest(err == nil)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.failures >= cb.maxFailures && time.Since(cb.openedAt) < cb.cooldown {
		return fmt.Errorf("circuit breaker %s is open", cb.name)
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.failures = 0
		return
	}

	cb.failures++
	if cb.failures >= cb.maxFailures {
		cb.openedAt = time.Now()
	}
}
