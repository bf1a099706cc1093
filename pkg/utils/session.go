package utils

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the authenticated caller for one request. It is built by the
// auth middleware and handed explicitly to services that need it.
type Session struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

func (s *Session) Role() string {
	if s != nil && s.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// CanManage reports whether the session may modify a record owned by ownerID.
func (s *Session) CanManage(ownerID uuid.UUID) bool {
	if s == nil {
		return false
	}
	return s.IsAdmin || s.UserID == ownerID
}
