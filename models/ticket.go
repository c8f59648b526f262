package models

import (
	"time"
)

type Ticket struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Event     string    `json:"event"`
	Validated bool      `json:"validated"`
	CreatedAt time.Time `json:"createdAt"`
}
