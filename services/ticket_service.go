package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ticket-desk/internal/status"
	"ticket-desk/models"
	"ticket-desk/monitoring"
	"ticket-desk/utils"

	pubnub "github.com/pubnub/go"
)

// maxCodeAttempts bounds check-then-insert regeneration when a freshly
// generated ticket code is already taken. The unique index on ticketId
// backs the residual race between check and insert.
const maxCodeAttempts = 5

type TicketService struct {
	store   TicketStore
	pubnub  *pubnub.PubNub
	channel string
	breaker *utils.CircuitBreaker
}

func NewTicketService(store TicketStore, pn *pubnub.PubNub, channel string) *TicketService {
	return &TicketService{
		store:   store,
		pubnub:  pn,
		channel: channel,
		breaker: utils.NewCircuitBreaker("pubnub", 5, 30*time.Second),
	}
}

// Create validates the supplied fields, allocates a fresh ticket code and
// stores the new ticket with validated=false. A code already taken, or an
// insert rejected by the unique index after a concurrent writer won the
// race past the existence check, retries with a fresh code.
func (s *TicketService) Create(ctx context.Context, name, phone, event string) (*models.Ticket, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required: %w", status.ErrInvalidInput)
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone is required: %w", status.ErrInvalidInput)
	}
	if strings.TrimSpace(event) == "" {
		return nil, fmt.Errorf("event is required: %w", status.ErrInvalidInput)
	}

	var lastInsertErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.GenerateTicketCode()
		if err != nil {
			monitoring.TrackTicketOperation("create", "error")
			return nil, err
		}

		existing, err := s.store.FindByCode(ctx, code)
		if err != nil {
			monitoring.TrackTicketOperation("create", "error")
			return nil, err
		}
		if len(existing) > 0 {
			continue
		}

		ticket, err := s.store.Insert(ctx, &models.Ticket{
			TicketID: code,
			Name:     name,
			Phone:    phone,
			Event:    event,
		})
		if err != nil {
			lastInsertErr = err
			continue
		}

		monitoring.TrackTicketOperation("create", "ok")
		s.publishEvent("ticket_created", ticket)
		return ticket, nil
	}

	monitoring.TrackTicketOperation("create", "error")
	if lastInsertErr != nil {
		return nil, lastInsertErr
	}
	return nil, fmt.Errorf("could not allocate a unique ticket code after %d attempts", maxCodeAttempts)
}

// List returns all tickets, newest first.
func (s *TicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	return s.store.List(ctx)
}

// Search canonicalizes the raw input and returns all tickets whose code
// matches it exactly. Empty input returns an empty result without hitting
// the store.
func (s *TicketService) Search(ctx context.Context, rawInput string) ([]*models.Ticket, error) {
	code := utils.NormalizeTicketCode(rawInput)
	if code == "" {
		return []*models.Ticket{}, nil
	}

	tickets, err := s.store.FindByCode(ctx, code)
	if err != nil {
		monitoring.TrackTicketOperation("search", "error")
		return nil, err
	}

	monitoring.TrackTicketOperation("search", "ok")
	return tickets, nil
}

// Validate marks the ticket identified by its storage id as validated.
// Validation is one-way and idempotent.
func (s *TicketService) Validate(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.store.SetValidated(ctx, id)
	if err != nil {
		monitoring.TrackTicketOperation("validate", "error")
		return nil, err
	}

	monitoring.TrackTicketOperation("validate", "ok")
	s.publishEvent("ticket_validated", ticket)
	return ticket, nil
}

// Delete removes the ticket and returns its last state.
func (s *TicketService) Delete(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.store.Delete(ctx, id)
	if err != nil {
		monitoring.TrackTicketOperation("delete", "error")
		return nil, err
	}

	monitoring.TrackTicketOperation("delete", "ok")
	return ticket, nil
}

func (s *TicketService) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		monitoring.TrackTicketOperation("delete_all", "error")
		return err
	}

	monitoring.TrackTicketOperation("delete_all", "ok")
	return nil
}

// publishEvent pushes a ticket state change to the entry-gate dashboard
// channel. Publishing is best effort: failures are logged, counted against
// the circuit breaker and never surfaced to the caller.
func (s *TicketService) publishEvent(eventType string, ticket *models.Ticket) {
	if s.pubnub == nil {
		return
	}

	err := s.breaker.Execute(func() error {
		_, _, err := s.pubnub.Publish().
			Channel(s.channel).
			Message(map[string]any{
				"type":      eventType,
				"ticket_id": ticket.TicketID,
				"event":     ticket.Event,
				"validated": ticket.Validated,
			}).
			Execute()
		return err
	})
	if err != nil {
		slog.Warn("realtime publish skipped", "type", eventType, "ticketId", ticket.TicketID, "error", err)
	}
}
