package services

import (
	"context"
	"fmt"

	"ticket-desk/internal/status"
	"ticket-desk/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// TicketStore is the narrow persistence interface the ticket service works
// against. The production implementation is backed by the PocketBase
// document store; tests substitute an in-memory fake.
type TicketStore interface {
	Insert(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	List(ctx context.Context) ([]*models.Ticket, error)
	FindByCode(ctx context.Context, code string) ([]*models.Ticket, error)
	SetValidated(ctx context.Context, id string) (*models.Ticket, error)
	Delete(ctx context.Context, id string) (*models.Ticket, error)
	DeleteAll(ctx context.Context) error
}

const ticketsCollection = "tickets"

type pbTicketStore struct {
	app core.App
}

func NewTicketStore(app core.App) TicketStore {
	return &pbTicketStore{app: app}
}

func (s *pbTicketStore) Insert(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	collection, err := s.app.FindCollectionByNameOrId(ticketsCollection)
	if err != nil {
		return nil, fmt.Errorf("find tickets collection: %w: %w", status.ErrStoreFailure, err)
	}

	record := core.NewRecord(collection)
	record.Set("name", ticket.Name)
	record.Set("phone", ticket.Phone)
	record.Set("event", ticket.Event)
	record.Set("ticketId", ticket.TicketID)
	record.Set("validated", false)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("save ticket: %w: %w", status.ErrStoreFailure, err)
	}

	return recordToTicket(record), nil
}

func (s *pbTicketStore) List(ctx context.Context) ([]*models.Ticket, error) {
	records := []*core.Record{}
	if err := s.app.RecordQuery(ticketsCollection).
		OrderBy("createdAt DESC").
		All(&records); err != nil {
		return nil, fmt.Errorf("list tickets: %w: %w", status.ErrStoreFailure, err)
	}

	tickets := make([]*models.Ticket, 0, len(records))
	for _, record := range records {
		tickets = append(tickets, recordToTicket(record))
	}
	return tickets, nil
}

func (s *pbTicketStore) FindByCode(ctx context.Context, code string) ([]*models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		ticketsCollection,
		"ticketId = {:code}",
		"-createdAt",
		0,
		0,
		dbx.Params{"code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("find tickets by code %s: %w: %w", code, status.ErrStoreFailure, err)
	}

	tickets := make([]*models.Ticket, 0, len(records))
	for _, record := range records {
		tickets = append(tickets, recordToTicket(record))
	}
	return tickets, nil
}

func (s *pbTicketStore) SetValidated(ctx context.Context, id string) (*models.Ticket, error) {
	record, err := s.app.FindRecordById(ticketsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}

	record.Set("validated", true)
	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("save ticket %s: %w: %w", id, status.ErrStoreFailure, err)
	}

	return recordToTicket(record), nil
}

// Delete removes the ticket and returns its last state so callers can
// drop derived data keyed by the ticket code.
func (s *pbTicketStore) Delete(ctx context.Context, id string) (*models.Ticket, error) {
	record, err := s.app.FindRecordById(ticketsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}

	if err := s.app.Delete(record); err != nil {
		return nil, fmt.Errorf("delete ticket %s: %w: %w", id, status.ErrStoreFailure, err)
	}
	return recordToTicket(record), nil
}

// DeleteAll removes every ticket inside a single store transaction so a
// mid-batch fault cannot leave residual records behind.
func (s *pbTicketStore) DeleteAll(ctx context.Context) error {
	err := s.app.RunInTransaction(func(txApp core.App) error {
		_, err := txApp.DB().NewQuery("DELETE FROM {{tickets}}").Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete all tickets: %w: %w", status.ErrStoreFailure, err)
	}
	return nil
}

func recordToTicket(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:        record.Id,
		TicketID:  record.GetString("ticketId"),
		Name:      record.GetString("name"),
		Phone:     record.GetString("phone"),
		Event:     record.GetString("event"),
		Validated: record.GetBool("validated"),
		CreatedAt: record.GetDateTime("createdAt").Time(),
	}
}
