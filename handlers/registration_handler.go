package handlers

import (
	"errors"
	"net/http"

	"ticket-desk/internal/status"
	"ticket-desk/services"

	"github.com/labstack/echo/v5"
)

// RegistrationHandler exposes the scan prototype endpoints on its own
// echo server, separate from the main ticket application.
type RegistrationHandler struct {
	registrations *services.RegistrationService
}

func NewRegistrationHandler(registrations *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Register - POST /register {fullName} -> {userId}
func (h *RegistrationHandler) Register(c echo.Context) error {
	var req struct {
		FullName string `json:"fullName"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	userID, err := h.registrations.Register(req.FullName)
	if err != nil {
		if errors.Is(err, status.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Full name is required"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"userId": userID})
}

// Validate - GET /validate?userId=... consumes the registration on first
// lookup; a repeat scan gets the record back with isValid already false.
func (h *RegistrationHandler) Validate(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "User ID is required"})
	}

	user, err := h.registrations.Validate(userID)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, user)
}

// Stats - GET /stats -> {totalUsers, validatedTickets}
func (h *RegistrationHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registrations.Stats())
}
