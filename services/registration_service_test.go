package services

import (
	"sync"
	"testing"

	"ticket-desk/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRegistrationService() *RegistrationService {
	return NewRegistrationService(NewMemoryUserStore())
}

func TestRegistrationService_Register_Success(t *testing.T) {
	service := setupTestRegistrationService()

	userID, err := service.Register("Grace Hopper")

	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	user, err := service.store.FindUser(userID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", user.FullName)
	assert.True(t, user.IsValid)
}

func TestRegistrationService_Register_FreshIDs(t *testing.T) {
	service := setupTestRegistrationService()

	first, err := service.Register("Grace Hopper")
	require.NoError(t, err)
	second, err := service.Register("Grace Hopper")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRegistrationService_Register_BlankName(t *testing.T) {
	service := setupTestRegistrationService()

	for _, name := range []string{"", "   ", "\t"} {
		_, err := service.Register(name)
		assert.ErrorIs(t, err, status.ErrInvalidInput)
	}
}

func TestRegistrationService_Validate_ConsumesOnce(t *testing.T) {
	service := setupTestRegistrationService()

	userID, err := service.Register("Grace Hopper")
	require.NoError(t, err)

	// first scan consumes the registration
	user, err := service.Validate(userID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", user.FullName)
	assert.Equal(t, userID, user.UserID)
	assert.False(t, user.IsValid)

	// repeat scan reports the already-used state without error
	user, err = service.Validate(userID)
	require.NoError(t, err)
	assert.False(t, user.IsValid)
}

func TestRegistrationService_Validate_UnknownUser(t *testing.T) {
	service := setupTestRegistrationService()

	_, err := service.Validate("unknown-id")

	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestRegistrationService_Stats(t *testing.T) {
	service := setupTestRegistrationService()

	first, err := service.Register("Grace Hopper")
	require.NoError(t, err)
	_, err = service.Register("Ada Lovelace")
	require.NoError(t, err)

	stats := service.Stats()
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 0, stats.ValidatedTickets)

	_, err = service.Validate(first)
	require.NoError(t, err)

	// repeat scans do not inflate the validated count
	_, err = service.Validate(first)
	require.NoError(t, err)

	stats = service.Stats()
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ValidatedTickets)
}

func TestMemoryUserStore_ConcurrentConsume(t *testing.T) {
	service := setupTestRegistrationService()

	userID, err := service.Register("Grace Hopper")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.Validate(userID)
		}()
	}
	wg.Wait()

	stats := service.Stats()
	assert.Equal(t, 1, stats.ValidatedTickets)
}
