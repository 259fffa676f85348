package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "roomdesk/internal/app/outbox"
)

type fakeQueue struct {
	docs   []*EventDocument
	sent   []string
	failed map[string]time.Time
}

func (q *fakeQueue) Claim(context.Context, string) (*EventDocument, error) {
	if len(q.docs) == 0 {
		return nil, nil
	}
	doc := q.docs[0]
	q.docs = q.docs[1:]
	return doc, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type published struct {
	topic, key string
	payload    []byte
	headers    map[string]string
}

type fakeProducer struct {
	out  []published
	fail error
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.fail != nil {
		return p.fail
	}
	p.out = append(p.out, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func doc(id string) *EventDocument {
	rec := appoutbox.EventRecord{
		ID:         id,
		Name:       "calendar.quick_booking_created",
		Payload:    []byte(`{"hotel_id":"h1","room_id":"1"}`),
		OccurredAt: time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC),
		Aggregate:  "1",
		Headers:    map[string]string{"request_id": "r1"},
	}
	d := newEventDocument(rec, rec.OccurredAt)
	return &d
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	q := &fakeQueue{docs: []*EventDocument{doc("e1"), doc("e2")}}
	p := &fakeProducer{}
	w := &Worker{Queue: q, Producer: p, TopicPrefix: "dev.", ID: "w1"}

	n, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"e1", "e2"}, q.sent)
	require.Len(t, p.out, 2)

	msg := p.out[0]
	assert.Equal(t, "dev.calendar.events.v1", msg.topic)
	assert.Equal(t, "1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "r1", msg.headers["request_id"])

	var evt struct {
		ID     string            `json:"id"`
		Type   string            `json:"type"`
		Source string            `json:"source"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, "e1", evt.ID)
	assert.Equal(t, "calendar.quick_booking_created.v1", evt.Type)
	assert.Equal(t, defaultSource, evt.Source)
	assert.Equal(t, "h1", evt.Data["hotel_id"])
}

func TestWorkerBacksOffOnFailure(t *testing.T) {
	now := time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)
	q := &fakeQueue{docs: []*EventDocument{doc("e1")}}
	p := &fakeProducer{fail: errors.New("broker down")}
	w := &Worker{Queue: q, Producer: p, Backoff: []time.Duration{time.Second, time.Minute}, Now: func() time.Time { return now }}

	n, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, now.Add(time.Second), q.failed["e1"])

	assert.Equal(t, now.Add(time.Minute), w.nextRetry(5))
	w.Backoff = nil
	assert.Equal(t, now.Add(5*time.Second), w.nextRetry(0))
}

func TestWorkerRejectsBadPayload(t *testing.T) {
	bad := doc("e1")
	bad.Payload = []byte("not json")
	q := &fakeQueue{docs: []*EventDocument{bad}}
	w := &Worker{Queue: q, Producer: &fakeProducer{}}
	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Contains(t, q.failed, "e1")
}

func TestWorkerRequiresDependencies(t *testing.T) {
	assert.ErrorIs(t, (&Worker{}).Run(context.Background()), ErrWorkerNotConfigured)
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, "calendar.events.v1", TopicFor("", "calendar.room_status_changed"))
	assert.Equal(t, "p.plain.events.v1", TopicFor("p.", "plain"))
}
