package handlers

import (
	"net/http"

	"ticket-desk/services"
	"ticket-desk/utils"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// PublicTicketHandler serves the shared per-ticket detail view. No auth:
// the ticket code in the URL is the capability.
type PublicTicketHandler struct {
	tickets *services.TicketService
	cache   *services.TicketCache
}

func NewPublicTicketHandler(tickets *services.TicketService, cache *services.TicketCache) *PublicTicketHandler {
	return &PublicTicketHandler{
		tickets: tickets,
		cache:   cache,
	}
}

// GetTicket - Public ticket detail by ticket code
func (h *PublicTicketHandler) GetTicket(e *core.RequestEvent) error {
	code := utils.NormalizeTicketCode(e.Request.PathValue("code"))
	if code == "" {
		return apis.NewBadRequestError("Ticket code required", nil)
	}
	ctx := e.Request.Context()

	if cached, ok := h.cache.Get(ctx, code); ok {
		return e.JSON(http.StatusOK, cached)
	}

	matches, err := h.tickets.Search(ctx, code)
	if err != nil {
		return apis.NewBadRequestError("Failed to fetch ticket", err)
	}
	if len(matches) == 0 {
		return apis.NewNotFoundError("Ticket not found", nil)
	}

	h.cache.Set(ctx, code, matches[0])

	return e.JSON(http.StatusOK, matches[0])
}
