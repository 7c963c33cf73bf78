package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const challengesCollection = "challenges"

var _ ports.ChallengeRepository = (*ChallengeRepository)(nil)

type ChallengeRepository struct {
	col *mongo.Collection
}

func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{col: db.Collection(challengesCollection)}
}

type challengeDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Title             string             `bson:"title"`
	Description       string             `bson:"description"`
	Category          string             `bson:"category"`
	ParticipationType string             `bson:"participation_type"`
	CashPrize         float64            `bson:"cash_prize"`
	Deadline          time.Time          `bson:"deadline"`
	CreatedBy         string             `bson:"created_by"`
	Status            string             `bson:"status"`
	Participants      []string           `bson:"participants"`
	MaxParticipants   int                `bson:"max_participants,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}

func (d challengeDoc) toDomain() *domain.Challenge {
	return &domain.Challenge{
		ID:                d.ID.Hex(),
		Title:             d.Title,
		Description:       d.Description,
		Category:          d.Category,
		ParticipationType: d.ParticipationType,
		CashPrize:         d.CashPrize,
		Deadline:          d.Deadline.UTC(),
		CreatedBy:         d.CreatedBy,
		Status:            domain.ChallengeStatus(d.Status),
		ParticipantCount:  len(d.Participants),
		MaxParticipants:   d.MaxParticipants,
		CreatedAt:         d.CreatedAt.UTC(),
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, c *domain.Challenge) (*domain.Challenge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := challengeDoc{
		ID:                primitive.NewObjectID(),
		Title:             c.Title,
		Description:       c.Description,
		Category:          c.Category,
		ParticipationType: c.ParticipationType,
		CashPrize:         c.CashPrize,
		Deadline:          c.Deadline.UTC(),
		CreatedBy:         c.CreatedBy,
		Status:            string(c.Status),
		Participants:      []string{},
		MaxParticipants:   c.MaxParticipants,
		CreatedAt:         c.CreatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChallengeRepository) FindByID(ctx context.Context, id string) (*domain.Challenge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrChallengeNotFound
	}

	var doc challengeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("find challenge: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns the newest challenges first.
func (r *ChallengeRepository) List(ctx context.Context, f ports.ListChallengesFilter) ([]*domain.Challenge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.CreatedBy != "" {
		filter["created_by"] = f.CreatedBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer cur.Close(ctx)

	var docs []challengeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}

	out := make([]*domain.Challenge, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateStatus is a compare-and-set on the status field.
func (r *ChallengeRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ChallengeStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrChallengeNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
	)
	if err != nil {
		return fmt.Errorf("update challenge status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *ChallengeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrChallengeNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepository) AddParticipant(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrChallengeNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"participants": userID}},
	)
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := r.col.Distinct(ctx, "category", bson.M{"category": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func ensureChallengeIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	})
	return err
}
