package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitterhub/marketplace/internal/core/domain"
)

const collectionBookingEvents = "booking_events"

// bookingEventDoc is the stored shape of a domain.BookingEvent.
type bookingEventDoc struct {
	BookingID  string    `bson:"booking_id"`
	FromStatus string    `bson:"from_status,omitempty"`
	ToStatus   string    `bson:"to_status"`
	ActorID    string    `bson:"actor_id"`
	ActorRole  string    `bson:"actor_role"`
	Reason     string    `bson:"reason,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// AuditRepository keeps the append-only booking status trail in MongoDB.
type AuditRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionBookingEvents), timeout: defaultTimeout}
}

// Record appends one event.
func (r *AuditRepository) Record(ctx context.Context, e domain.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := bookingEventDoc{
		BookingID:  e.BookingID,
		FromStatus: string(e.FromStatus),
		ToStatus:   string(e.ToStatus),
		ActorID:    e.ActorID,
		ActorRole:  string(e.ActorRole),
		Reason:     e.Reason,
		At:         e.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

// History returns the events of one booking, oldest first.
func (r *AuditRepository) History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find booking events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookingEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode booking events: %w", err)
	}

	events := make([]domain.BookingEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.BookingEvent{
			BookingID:  d.BookingID,
			FromStatus: domain.BookingStatus(d.FromStatus),
			ToStatus:   domain.BookingStatus(d.ToStatus),
			ActorID:    d.ActorID,
			ActorRole:  domain.Role(d.ActorRole),
			Reason:     d.Reason,
			At:         d.At,
		})
	}
	return events, nil
}

// EnsureIndexes creates the indexes used by History.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "at", Value: 1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
