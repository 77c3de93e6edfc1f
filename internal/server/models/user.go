// Package models defines the server-side domain entities shared by
// repositories and services.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account inside an organization. TenantID is nil for users
// created before any organization exists (e.g. platform administrators).
type User struct {
	ID                uuid.UUID
	Email             string
	UserName          string
	FirstName         string
	LastName          string
	PasswordHash      []byte
	IsInvited         bool
	GrantedPermission string
	TenantID          *uuid.UUID
	Roles             []string
	CreatedAt         time.Time
}
