package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainauth "roomdesk/internal/domain/auth"
)

const defaultPrefix = "roomdesk:session:"

// SessionStore keeps sessions as JSON values whose redis TTL matches the session
// expiry, so expired tokens disappear on their own.
type SessionStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
}

func NewSessionStore(client goredis.UniversalClient, prefix string) *SessionStore {
	if client == nil {
		panic("redis: client required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	ttl := session.TTL(s.now())
	if ttl <= 0 {
		return domainauth.ErrSessionExpired
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.Token), raw, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var session domainauth.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// Ping is used by the readiness probe.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(token domainauth.Token) string {
	return s.prefix + string(token)
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
