package inbox

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "calendar_inbox"

// Store records which events a consumer has handled. Entries expire after a day,
// long past any redelivery window.
type Store struct {
	col      *mongo.Collection
	consumer string
}

func NewStore(ctx context.Context, db *mongo.Database, consumer string) (*Store, error) {
	col := db.Collection(collection)
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "consumer", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "received_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32((24 * time.Hour).Seconds()))},
	})
	if err != nil {
		return nil, err
	}
	return &Store{col: col, consumer: consumer}, nil
}

// Seen inserts the event id and reports true when it was already there.
func (s *Store) Seen(ctx context.Context, eventID string) (bool, error) {
	_, err := s.col.InsertOne(ctx, newEntry(eventID, s.consumer, time.Now().UTC()))
	if err == nil {
		return false, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return true, nil
	}
	return false, err
}

type entry struct {
	EventID    string    `bson:"event_id"`
	Consumer   string    `bson:"consumer"`
	ReceivedAt time.Time `bson:"received_at"`
}

func newEntry(eventID, consumer string, at time.Time) entry {
	return entry{EventID: eventID, Consumer: consumer, ReceivedAt: at}
}
