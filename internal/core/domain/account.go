package domain

import "time"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Account is the site owner's identity. There is exactly one account per site.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Site         string    `json:"site"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the decoded content of a bearer token.
type Claims struct {
	AccountID string
	Email     string
	Site      string
	ExpiresAt time.Time
}
