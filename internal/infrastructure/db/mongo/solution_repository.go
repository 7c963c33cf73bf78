package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const solutionsCollection = "solutions"

var _ ports.SolutionRepository = (*SolutionRepository)(nil)

type SolutionRepository struct {
	col *mongo.Collection
}

func NewSolutionRepository(db *mongo.Database) *SolutionRepository {
	return &SolutionRepository{col: db.Collection(solutionsCollection)}
}

type solutionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ChallengeID string             `bson:"challenge_id"`
	UserID      string             `bson:"user_id"`
	UserName    string             `bson:"user_name"`
	Content     string             `bson:"content,omitempty"`
	Attachments string             `bson:"attachments"`
	Score       float64            `bson:"score"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d solutionDoc) toDomain() *domain.Solution {
	return &domain.Solution{
		ID:          d.ID.Hex(),
		ChallengeID: d.ChallengeID,
		SubmittedBy: d.UserID,
		SolverName:  d.UserName,
		Content:     d.Content,
		Attachments: d.Attachments,
		Score:       d.Score,
		Status:      domain.SolutionStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// Create relies on the unique (challenge_id, user_id) index to refuse a
// second submission.
func (r *SolutionRepository) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := solutionDoc{
		ID:          primitive.NewObjectID(),
		ChallengeID: s.ChallengeID,
		UserID:      s.SubmittedBy,
		UserName:    s.SolverName,
		Content:     s.Content,
		Attachments: s.Attachments,
		Score:       s.Score,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSolutionExists
		}
		return nil, fmt.Errorf("insert solution: %w", err)
	}
	return doc.toDomain(), nil
}

type leaderboardRow struct {
	UserID              string  `bson:"_id"`
	UserName            string  `bson:"user_name"`
	Score               float64 `bson:"score"`
	ChallengesCompleted int     `bson:"challenges_completed"`
}

func (r *SolutionRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, leaderboardPipeline(limit), options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, fmt.Errorf("aggregate leaderboard: %w", err)
	}
	defer cur.Close(ctx)

	var rows []leaderboardRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LeaderboardEntry{
			UserID:              row.UserID,
			UserName:            row.UserName,
			Score:               row.Score,
			ChallengesCompleted: row.ChallengesCompleted,
		})
	}
	return out, nil
}

// leaderboardPipeline totals graded solutions per solver. Only solutions
// with a positive score count towards completed challenges.
func leaderboardPipeline(limit int) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"score": bson.M{"$gt": 0}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$user_id",
			"user_name": bson.M{"$last": "$user_name"},
			"score":     bson.M{"$sum": "$score"},
			"completed": bson.M{"$addToSet": "$challenge_id"},
		}}},
		{{Key: "$project", Value: bson.M{
			"user_name":            1,
			"score":                1,
			"challenges_completed": bson.M{"$size": "$completed"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "score", Value: -1},
			{Key: "challenges_completed", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	return p
}

func ensureSolutionIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "challenge_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "score", Value: -1}}},
	})
	return err
}
