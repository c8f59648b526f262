package handlers

import (
	"errors"
	"net/http"

	"ticket-desk/internal/status"
	"ticket-desk/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketHandler struct {
	tickets *services.TicketService
	cache   *services.TicketCache
}

func NewTicketHandler(tickets *services.TicketService, cache *services.TicketCache) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
		cache:   cache,
	}
}

// CreateTicket - Create a new ticket with a freshly generated code
func (h *TicketHandler) CreateTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Event string `json:"event"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ticket, err := h.tickets.Create(e.Request.Context(), req.Name, req.Phone, req.Event)
	if err != nil {
		if errors.Is(err, status.ErrInvalidInput) {
			return apis.NewBadRequestError(err.Error(), nil)
		}
		return apis.NewBadRequestError("Failed to create ticket", err)
	}

	return e.JSON(http.StatusOK, ticket)
}

// ListTickets - List all tickets, newest first
func (h *TicketHandler) ListTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	tickets, err := h.tickets.List(e.Request.Context())
	if err != nil {
		return apis.NewBadRequestError("Failed to list tickets", err)
	}

	return e.JSON(http.StatusOK, tickets)
}

// SearchTickets - Exact match on the canonicalized ticket code
func (h *TicketHandler) SearchTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	q := e.Request.URL.Query().Get("q")

	tickets, err := h.tickets.Search(e.Request.Context(), q)
	if err != nil {
		return apis.NewBadRequestError("Ticket search failed", err)
	}

	return e.JSON(http.StatusOK, tickets)
}

// ValidateTicket - One-way validated flip at the entry gate
func (h *TicketHandler) ValidateTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	id := e.Request.PathValue("id")
	if id == "" {
		return apis.NewBadRequestError("Ticket ID required", nil)
	}
	ctx := e.Request.Context()

	ticket, err := h.tickets.Validate(ctx, id)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return apis.NewNotFoundError("Ticket not found", err)
		}
		return apis.NewBadRequestError("Failed to validate ticket", err)
	}

	h.cache.Invalidate(ctx, ticket.TicketID)

	return e.JSON(http.StatusOK, ticket)
}

// DeleteTicket - Remove a single ticket
func (h *TicketHandler) DeleteTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	id := e.Request.PathValue("id")
	if id == "" {
		return apis.NewBadRequestError("Ticket ID required", nil)
	}
	ctx := e.Request.Context()

	ticket, err := h.tickets.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return apis.NewNotFoundError("Ticket not found", err)
		}
		return apis.NewBadRequestError("Failed to delete ticket", err)
	}

	h.cache.Invalidate(ctx, ticket.TicketID)

	return e.NoContent(http.StatusNoContent)
}

// DeleteAllTickets - Clear the whole collection in one transaction
func (h *TicketHandler) DeleteAllTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}
	ctx := e.Request.Context()

	if err := h.tickets.DeleteAll(ctx); err != nil {
		return apis.NewBadRequestError("Failed to delete all tickets", err)
	}

	h.cache.InvalidateAll(ctx)

	return e.NoContent(http.StatusNoContent)
}
