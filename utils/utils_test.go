package utils

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Ticket Code Tests

func TestGenerateTicketCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TKT-[A-Z0-9]{5}$`)

	for i := 0; i < 100; i++ {
		code, err := GenerateTicketCode()
		assert.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "unexpected code format: %s", code)
	}
}

func TestGenerateTicketCode_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateTicketCode()
		assert.NoError(t, err)
		seen[code] = true
	}

	// 50 draws from a 36^5 space should practically never all collide.
	assert.Greater(t, len(seen), 1)
}

func TestNormalizeTicketCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Bare code", "abc12", "TKT-ABC12"},
		{"Prefixed code", "TKT-abc12", "TKT-ABC12"},
		{"Lowercase prefix", "tkt-abc12", "TKT-ABC12"},
		{"Mixed case prefix", "Tkt-X", "TKT-X"},
		{"Already canonical", "TKT-ABC12", "TKT-ABC12"},
		{"Empty input", "", ""},
		{"Prefix only", "TKT-", ""},
		{"Lowercase prefix only", "tkt-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTicketCode(tt.input))
		})
	}
}

func TestNormalizeTicketCode_Idempotent(t *testing.T) {
	once := NormalizeTicketCode("tkt-ab12c")
	twice := NormalizeTicketCode(once)
	assert.Equal(t, once, twice)
}

// Circuit Breaker Tests

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	err := cb.Execute(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, uint32(0), cb.failures)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	expectedErr := errors.New("publish failed")
	err := cb.Execute(func() error { return expectedErr })

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, uint32(1), cb.failures)
}

func TestCircuitBreaker_TripsOpenAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute)

	for i := 0; i < 2; i++ {
		cb.Execute(func() error { return errors.New("failure") })
	}

	executed := false
	err := cb.Execute(func() error {
		executed = true
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker test is open")
	assert.False(t, executed)
}

func TestCircuitBreaker_RecoversAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 50*time.Millisecond)

	for i := 0; i < 2; i++ {
		cb.Execute(func() error { return errors.New("failure") })
	}

	time.Sleep(80 * time.Millisecond)

	err := cb.Execute(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, uint32(0), cb.failures)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	cb.Execute(func() error { return errors.New("failure") })
	cb.Execute(func() error { return nil })

	assert.Equal(t, uint32(0), cb.failures)
}
