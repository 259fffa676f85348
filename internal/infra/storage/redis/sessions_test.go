package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "roomdesk/internal/domain/auth"
)

func TestSessionStoreKeysAndValidation(t *testing.T) {
	client := NewClient("127.0.0.1:0", "", 0)
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, "")
	assert.Equal(t, "roomdesk:session:abc", store.key("abc"))
	assert.Equal(t, "x:abc", NewSessionStore(client, "x:").key("abc"))

	ctx := context.Background()
	assert.ErrorIs(t, store.Save(ctx, nil), domainauth.ErrTokenRequired)

	past := time.Now().Add(-2 * time.Hour)
	expired := &domainauth.Session{Token: "old", CreatedAt: past, ExpiresAt: past.Add(time.Hour)}
	assert.ErrorIs(t, store.Save(ctx, expired), domainauth.ErrSessionExpired)
}

func TestNewSessionStorePanicsWithoutClient(t *testing.T) {
	require.Panics(t, func() { NewSessionStore(nil, "") })
}
