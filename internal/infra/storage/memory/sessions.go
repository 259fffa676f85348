package memory

import (
	"context"
	"strings"
	"sync"

	domainauth "roomdesk/internal/domain/auth"
)

// StaffDirectory stores back-office accounts keyed by lower-cased email.
type StaffDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]*domainauth.Staff
}

func NewStaffDirectory() *StaffDirectory {
	return &StaffDirectory{byEmail: make(map[string]*domainauth.Staff)}
}

func (d *StaffDirectory) ByEmail(_ context.Context, email string) (*domainauth.Staff, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	staff, ok := d.byEmail[emailKey(email)]
	if !ok {
		return nil, domainauth.ErrStaffNotFound
	}
	cp := *staff
	return &cp, nil
}

func (d *StaffDirectory) Save(_ context.Context, staff *domainauth.Staff) error {
	if staff == nil || emailKey(staff.Email) == "" {
		return domainauth.ErrEmailRequired
	}
	cp := *staff
	cp.Email = emailKey(staff.Email)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEmail[cp.Email] = &cp
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionStore keeps bearer sessions in memory. Expiry is checked by the caller.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[domainauth.Token]*domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[domainauth.Token]*domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	cp := *session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = &cp
	return nil
}

func (s *SessionStore) Get(_ context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *SessionStore) Delete(_ context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

var (
	_ domainauth.StaffDirectory = (*StaffDirectory)(nil)
	_ domainauth.SessionStore   = (*SessionStore)(nil)
)
