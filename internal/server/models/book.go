package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is the tenant-owned resource. Every repository operation on books
// filters by the tenant attached to the request context.
type Book struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Author    string
	Details   string
	CreatedAt time.Time
}
