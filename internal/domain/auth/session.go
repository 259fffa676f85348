package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTokenRequired   = errors.New("auth: token is required")
	ErrEmailRequired   = errors.New("auth: email is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
	ErrSessionExpired  = errors.New("auth: session expired")
	ErrStaffNotFound   = errors.New("auth: staff member not found")
)

type Token string

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "USER"
)

// Staff is a back-office account allowed into the dashboard.
type Staff struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

type StaffDirectory interface {
	ByEmail(ctx context.Context, email string) (*Staff, error)
	Save(ctx context.Context, staff *Staff) error
}

// Session is the explicit context for privileged actions: created at login, read
// on every request, removed at logout.
type Session struct {
	Token     Token     `json:"token"`
	StaffID   string    `json:"staff_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateSessionParams struct {
	Token Token
	Staff *Staff
	TTL   time.Duration
	Now   time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	token := strings.TrimSpace(string(params.Token))
	if token == "" {
		return nil, ErrTokenRequired
	}
	if params.Staff == nil || strings.TrimSpace(params.Staff.Email) == "" {
		return nil, ErrEmailRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Session{
		Token:     Token(token),
		StaffID:   params.Staff.ID,
		Email:     params.Staff.Email,
		Role:      params.Staff.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(params.TTL),
	}, nil
}

func (s *Session) Expired(at time.Time) bool {
	if at.IsZero() {
		at = time.Now()
	}
	return !s.ExpiresAt.After(at.UTC())
}

func (s *Session) TTL(at time.Time) time.Duration {
	return s.ExpiresAt.Sub(at.UTC())
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Delete(ctx context.Context, token Token) error
}
