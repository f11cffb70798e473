package model

import "time"

// Contact represents a row in the `contacts` table. Every contact belongs
// to exactly one user; repository queries always filter by OwnerID so one
// account can never read or mutate another account's contacts.
type Contact struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
