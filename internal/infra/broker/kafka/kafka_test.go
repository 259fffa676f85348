package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingViews struct{ hotels []string }

func (v *countingViews) RefreshHotel(_ context.Context, hotelID string) int {
	v.hotels = append(v.hotels, hotelID)
	return 1
}

type setInbox struct {
	seen map[string]bool
	err  error
}

func (i *setInbox) Seen(_ context.Context, id string) (bool, error) {
	if i.err != nil {
		return false, i.err
	}
	if i.seen[id] {
		return true, nil
	}
	i.seen[id] = true
	return false, nil
}

func TestRefreshHandler(t *testing.T) {
	views := &countingViews{}
	h := &RefreshHandler{Views: views, Inbox: &setInbox{seen: map[string]bool{}}}
	ctx := context.Background()

	msg := &sarama.ConsumerMessage{Value: []byte(`{"id":"e1","type":"calendar.quick_booking_created.v1","data":{"hotel_id":"h1"}}`)}
	require.NoError(t, h.Handle(ctx, msg))
	require.NoError(t, h.Handle(ctx, msg), "duplicate delivery")
	require.NoError(t, h.Handle(ctx, &sarama.ConsumerMessage{Value: []byte(`{"id":"e2","data":{}}`)}))
	require.NoError(t, h.Handle(ctx, &sarama.ConsumerMessage{Value: []byte(`garbage`)}))

	assert.Equal(t, []string{"h1"}, views.hotels)
}

func TestRefreshHandlerInboxFailure(t *testing.T) {
	h := &RefreshHandler{Views: &countingViews{}, Inbox: &setInbox{err: errors.New("mongo down")}}
	err := h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"id":"e1","data":{"hotel_id":"h1"}}`)})
	assert.Error(t, err)
}

func TestNewMessageSortsHeaders(t *testing.T) {
	msg := newMessage("calendar.events.v1", "room-1", []byte("{}"), map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, "calendar.events.v1", msg.Topic)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "a", string(msg.Headers[0].Key))
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "room-1", string(key))
}
