package auth

import (
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"

	"github.com/google/uuid"
)

// Role is the closed set of console roles
type Role = models.Role

const (
	RoleAdmin      = models.RoleAdmin
	RoleTechnician = models.RoleTechnician
)

// Session is the authenticated state of one console user. The zero value is
// a logged-out session.
type Session struct {
	UserID       uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	Role         Role       `json:"role"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
	Token        string     `json:"-"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// Authenticated reports whether the session belongs to a logged-in user
func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID != uuid.Nil
}

// IsAdmin reports whether the session has the admin role
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == RoleAdmin
}

// Login returns the session that results from user signing in with token.
// Any previous session state is replaced.
func Login(_ Session, user *models.User, token string, expiresAt time.Time) Session {
	return Session{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		TechnicianID: user.TechnicianID,
		Token:        token,
		ExpiresAt:    expiresAt,
	}
}

// Logout returns the logged-out session
func Logout(Session) Session {
	return Session{}
}

// View is the dashboard a role is shown
type View string

const (
	ViewAdminDashboard      View = "admin_dashboard"
	ViewTechnicianDashboard View = "technician_dashboard"
)

// ViewFor returns the dashboard view for role
func ViewFor(role Role) (View, error) {
	switch role {
	case RoleAdmin:
		return ViewAdminDashboard, nil
	case RoleTechnician:
		return ViewTechnicianDashboard, nil
	}
	return "", apperrors.NewAuthorizationError("unknown role " + string(role))
}
