package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "roomdesk/internal/domain/auth"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordRequired   = errors.New("auth: password required")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Service struct {
	Staff      domainauth.StaffDirectory
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	Staff   *domainauth.Staff
	Session *domainauth.Session
}

type SeedParams struct {
	Email    string
	Name     string
	Password string
	Role     domainauth.Role
}

// Seed stores a staff account unless one with the same email already exists.
func (s *Service) Seed(ctx context.Context, params SeedParams) (*domainauth.Staff, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, domainauth.ErrEmailRequired
	}
	if params.Password == "" {
		return nil, ErrPasswordRequired
	}
	existing, err := s.Staff.ByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainauth.ErrStaffNotFound) {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	role := params.Role
	if role == "" {
		role = domainauth.RoleStaff
	}
	staff := &domainauth.Staff{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.Staff.Save(ctx, staff); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("staff account seeded", "staff_id", staff.ID, "email", staff.Email, "role", staff.Role)
	}
	return staff, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := normalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}
	staff, err := s.Staff.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainauth.ErrStaffNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(staff.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.Tokens.NewToken()
	if err != nil {
		return nil, err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token: domainauth.Token(token),
		Staff: staff,
		TTL:   s.sessionTTL(),
		Now:   s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("staff authenticated", "staff_id", staff.ID, "role", staff.Role)
	}
	return &LoginResult{Staff: staff, Session: session}, nil
}

// Logout is a no-op for an empty token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, domainauth.Token(token)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated")
	}
	return nil
}

// Resolve returns the live session for token. Expired sessions are deleted and
// reported as ErrSessionExpired.
func (s *Service) Resolve(ctx context.Context, token string) (*domainauth.Session, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		return nil, domainauth.ErrSessionExpired
	}
	return session, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 12 * time.Hour
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Staff == nil:
		return errors.New("auth: staff directory required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
