package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	ticketCodePrefix  = "TKT-"
	ticketCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ticketCodeLength  = 5
)

// GenerateTicketCode produces a short human-shareable ticket code of the
// form "TKT-" followed by 5 uppercase alphanumeric characters. Codes are
// meant to be spoken or typed at an entry gate, not to be collision-free;
// uniqueness is enforced at the store layer.
func GenerateTicketCode() (string, error) {
	code := make([]byte, ticketCodeLength)
	if _, err := rand.Read(code); err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}

	// Convert bytes to charset characters.
	for i := 0; i < ticketCodeLength; i++ {
		code[i] = ticketCodeCharset[int(code[i])%len(ticketCodeCharset)]
	}

	return ticketCodePrefix + string(code), nil
}

// NormalizeTicketCode canonicalizes user search input into the ticket code
// format: an optional leading "TKT-" is stripped case-insensitively, the
// remainder is uppercased and the prefix re-attached. Empty input stays
// empty so callers can suppress search-on-empty.
func NormalizeTicketCode(raw string) string {
	cleaned := raw
	if len(cleaned) >= len(ticketCodePrefix) && strings.EqualFold(cleaned[:len(ticketCodePrefix)], ticketCodePrefix) {
		cleaned = cleaned[len(ticketCodePrefix):]
	}
	cleaned = strings.ToUpper(cleaned)
	if cleaned == "" {
		return ""
	}
	return ticketCodePrefix + cleaned
}
