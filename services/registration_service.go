package services

import (
	"fmt"
	"strings"
	"sync"

	"ticket-desk/internal/status"
	"ticket-desk/models"
	"ticket-desk/monitoring"

	"github.com/google/uuid"
)

// UserStore holds scan-prototype registrations. Consume must be atomic:
// the first call for a user flips IsValid true to false, later calls
// return the already-consumed record unchanged.
type UserStore interface {
	CreateUser(user models.RegisteredUser) error
	FindUser(userID string) (models.RegisteredUser, error)
	ConsumeUser(userID string) (models.RegisteredUser, error)
	Counts() (totalUsers, consumed int)
}

// MemoryUserStore is a mutex-guarded in-memory UserStore. Registrations
// live for the process lifetime only.
type MemoryUserStore struct {
	mutex    sync.RWMutex
	users    map[string]models.RegisteredUser
	consumed int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]models.RegisteredUser),
	}
}

func (s *MemoryUserStore) CreateUser(user models.RegisteredUser) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.users[user.UserID]; exists {
		return fmt.Errorf("user %s already registered: %w", user.UserID, status.ErrInvalidInput)
	}

	s.users[user.UserID] = user
	return nil
}

func (s *MemoryUserStore) FindUser(userID string) (models.RegisteredUser, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.RegisteredUser{}, fmt.Errorf("user %s: %w", userID, status.ErrNotFound)
	}
	return user, nil
}

func (s *MemoryUserStore) ConsumeUser(userID string) (models.RegisteredUser, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.RegisteredUser{}, fmt.Errorf("user %s: %w", userID, status.ErrNotFound)
	}

	if user.IsValid {
		user.IsValid = false
		s.users[userID] = user
		s.consumed++
	}
	return user, nil
}

func (s *MemoryUserStore) Counts() (int, int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.users), s.consumed
}

// RegistrationService is the scan prototype: register an attendee, then
// validate their ticket exactly once via a QR scan lookup.
type RegistrationService struct {
	store UserStore
}

func NewRegistrationService(store UserStore) *RegistrationService {
	return &RegistrationService{store: store}
}

// Register stores a new attendee and returns their generated user id.
func (s *RegistrationService) Register(fullName string) (string, error) {
	if strings.TrimSpace(fullName) == "" {
		monitoring.TrackRegistrationOperation("register", "error")
		return "", fmt.Errorf("full name is required: %w", status.ErrInvalidInput)
	}

	userID := uuid.NewString()
	if err := s.store.CreateUser(models.RegisteredUser{
		UserID:   userID,
		FullName: fullName,
		IsValid:  true,
	}); err != nil {
		monitoring.TrackRegistrationOperation("register", "error")
		return "", err
	}

	monitoring.TrackRegistrationOperation("register", "ok")
	return userID, nil
}

// Validate consumes the registration on first lookup. A repeat scan gets
// the record back with IsValid already false; callers decide how to
// present the "already used" case.
func (s *RegistrationService) Validate(userID string) (models.RegisteredUser, error) {
	user, err := s.store.ConsumeUser(userID)
	if err != nil {
		monitoring.TrackRegistrationOperation("validate", "error")
		return models.RegisteredUser{}, err
	}

	monitoring.TrackRegistrationOperation("validate", "ok")
	return user, nil
}

func (s *RegistrationService) Stats() models.RegistrationStats {
	total, consumed := s.store.Counts()
	return models.RegistrationStats{
		TotalUsers:       total,
		ValidatedTickets: consumed,
	}
}
