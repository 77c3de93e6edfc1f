package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored long-lived credential. The row identity (ID)
// survives rotation: on every refresh the Token value and expiry are
// rewritten in place while ID stays the same, so one row represents one
// session lineage.
type RefreshToken struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Token        string
	ExpiresOnUtc time.Time

	// User is the owning account, populated on lookups that join users.
	User *User
}
