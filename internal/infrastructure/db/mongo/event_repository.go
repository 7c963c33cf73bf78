package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const auditCollection = "moderation_events"

var _ ports.AuditRepository = (*AuditRepository)(nil)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

// InsertEvent appends a moderation event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.ModerationEvent) error {
	doc := bson.M{
		"event_id":     event.ID,
		"challenge_id": event.ChallengeID,
		"action":       string(event.Action),
		"from":         string(event.From),
		"actor_id":     event.ActorID,
		"at":           event.At.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.To != "" {
		doc["to"] = string(event.To)
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func ensureAuditIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "challenge_id", Value: 1}, {Key: "at", Value: 1}}},
	})
	return err
}
