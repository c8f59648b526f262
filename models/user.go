package models

// RegisteredUser is a registration created by the scan prototype. IsValid
// starts true and flips to false on the first validation lookup.
type RegisteredUser struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	IsValid  bool   `json:"isValid"`
}

type RegistrationStats struct {
	TotalUsers       int `json:"totalUsers"`
	ValidatedTickets int `json:"validatedTickets"`
}
