package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

const (
	collectionActivity = "activity_events"
	defaultListLimit   = 50
	maxListLimit       = 500
)

// activityDocument is the stored shape of an activity event.
type activityDocument struct {
	ID         string            `bson:"_id"`
	Kind       string            `bson:"kind"`
	EntityType string            `bson:"entity_type"`
	EntityID   int64             `bson:"entity_id"`
	ActorID    int64             `bson:"actor_id"`
	ActorRole  string            `bson:"actor_role"`
	Details    map[string]string `bson:"details,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
	StoredAt   time.Time         `bson:"stored_at"`
}

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

// Insert appends an event to the trail. Re-inserting an id is ignored so a
// retried write never duplicates an entry.
func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	doc := toDocument(e)
	doc.StoredAt = time.Now().UTC()

	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// List returns the most recent events matching filter, newest first.
func (r *ActivityRepository) List(ctx context.Context, filter ports.ActivityFilter) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.EntityType != "" {
		q["entity_type"] = filter.EntityType
	}
	if filter.EntityID != 0 {
		q["entity_id"] = int64(filter.EntityID)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(clampLimit(filter.Limit)))

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []activityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.ActivityEvent, 0, len(docs))
	for i := range docs {
		out = append(out, fromDocument(&docs[i]))
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the activity collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}

func toDocument(e *domain.ActivityEvent) activityDocument {
	return activityDocument{
		ID:         e.ID,
		Kind:       string(e.Kind),
		EntityType: e.EntityType,
		EntityID:   int64(e.EntityID),
		ActorID:    int64(e.ActorID),
		ActorRole:  e.ActorRole,
		Details:    e.Details,
		OccurredAt: e.OccurredAt.UTC(),
	}
}

func fromDocument(d *activityDocument) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		ID:         d.ID,
		Kind:       domain.ActivityKind(d.Kind),
		EntityType: d.EntityType,
		EntityID:   uint(d.EntityID),
		ActorID:    uint(d.ActorID),
		ActorRole:  d.ActorRole,
		Details:    d.Details,
		OccurredAt: d.OccurredAt,
	}
}
