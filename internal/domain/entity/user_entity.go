package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt digest and never leaves the API boundary.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
