package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func stageNames(t *testing.T, limit int) []string {
	t.Helper()
	var names []string
	for _, stage := range leaderboardPipeline(limit) {
		if len(stage) != 1 {
			t.Fatalf("expected one operator per stage, got %v", stage)
		}
		names = append(names, stage[0].Key)
	}
	return names
}

func TestLeaderboardPipeline_Stages(t *testing.T) {
	got := stageNames(t, 100)
	want := []string{"$match", "$group", "$project", "$sort", "$limit"}
	if len(got) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, got)
		}
	}

	p := leaderboardPipeline(100)
	if p[0][0].Value.(bson.M)["score"].(bson.M)["$gt"] != 0 {
		t.Errorf("ungraded solutions must be filtered out: %v", p[0])
	}
	sort := p[3][0].Value.(bson.D)
	if sort[0].Key != "score" || sort[1].Key != "challenges_completed" {
		t.Errorf("expected score then completed challenges, got %v", sort)
	}
	if p[4][0].Value != 100 {
		t.Errorf("expected limit 100, got %v", p[4][0].Value)
	}
}

func TestLeaderboardPipeline_NoLimit(t *testing.T) {
	if got := stageNames(t, 0); got[len(got)-1] == "$limit" {
		t.Fatalf("expected no $limit stage, got %v", got)
	}
}
