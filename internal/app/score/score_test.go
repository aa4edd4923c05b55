package score_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aura-wellness/aura/internal/app/score"
	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMoodNorm(t *testing.T) {
	cases := []struct {
		mood int
		want int
	}{
		{1, 0},
		{2, 25},
		{3, 50},
		{4, 75},
		{5, 100},
	}
	for _, c := range cases {
		if got := score.MoodNorm(c.mood); got != c.want {
			t.Errorf("MoodNorm(%d) = %d, want %d", c.mood, got, c.want)
		}
	}
	// Monotonic over the valid range
	for m := 2; m <= 5; m++ {
		if score.MoodNorm(m) <= score.MoodNorm(m-1) {
			t.Errorf("MoodNorm not strictly increasing at mood=%d", m)
		}
	}
}

func TestBoostsNorm(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 20},
		{2, 40},
		{3, 60},
		{5, 100},
		{8, 100}, // saturates at five boosts
	}
	for _, c := range cases {
		if got := score.BoostsNorm(c.count); got != c.want {
			t.Errorf("BoostsNorm(%d) = %d, want %d", c.count, got, c.want)
		}
	}
}

func TestComposite(t *testing.T) {
	if got := score.Composite(100, 100, 0); got != 80 {
		t.Errorf("Composite(100,100,0) = %d, want 80", got)
	}
	if got := score.Composite(0, 0, 0); got != 0 {
		t.Errorf("Composite(0,0,0) = %d, want 0", got)
	}
	// mood=5 with two boosts: 0.5*100 + 0.3*40 = 62
	if got := score.Composite(100, 40, 0); got != 62 {
		t.Errorf("Composite(100,40,0) = %d, want 62", got)
	}
}

func TestRecordMoodCheckin_CountsTodaysBoosts(t *testing.T) {
	db := testDB(t)
	agg := score.NewAggregator(db)

	at := time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)
	for i, ref := range []string{"breathe-1", "gratitude"} {
		e := domain.ActivityEvent{
			ID: ref, UserID: "alice", Kind: domain.KindBoostComplete,
			OccurredAt: at.Add(time.Duration(-i) * time.Hour), Ref: ref,
		}
		if err := db.InsertEvent(e); err != nil {
			t.Fatalf("seed boost: %v", err)
		}
	}

	got, err := agg.RecordMoodCheckin("alice", 5, at)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got.Score != 62 {
		t.Errorf("expected score 62 for mood=5 with 2 boosts, got %d", got.Score)
	}
	if got.MoodComponent != 100 || got.BoostsComponent != 40 {
		t.Errorf("components = %d/%d, want 100/40", got.MoodComponent, got.BoostsComponent)
	}
	if got.GlowComponent != 0 {
		t.Errorf("glow component should stay 0, got %d", got.GlowComponent)
	}
}

func TestRecordMoodCheckin_SameDayOverwrites(t *testing.T) {
	db := testDB(t)
	agg := score.NewAggregator(db)

	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	if _, err := agg.RecordMoodCheckin("alice", 2, at); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if _, err := agg.RecordMoodCheckin("alice", 5, at.Add(6*time.Hour)); err != nil {
		t.Fatalf("second check-in: %v", err)
	}

	got, err := agg.ScoreFor("alice", "2024-01-05")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if got.MoodComponent != 100 {
		t.Errorf("expected later check-in to win, mood component = %d", got.MoodComponent)
	}
}

func TestScoreFor_Missing(t *testing.T) {
	db := testDB(t)
	agg := score.NewAggregator(db)

	_, err := agg.ScoreFor("ghost", "2024-01-05")
	if !errors.Is(err, domain.ErrScoreNotFound) {
		t.Errorf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestHistory_MostRecentFirst(t *testing.T) {
	db := testDB(t)
	agg := score.NewAggregator(db)

	for day := 1; day <= 3; day++ {
		at := time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)
		if _, err := agg.RecordMoodCheckin("alice", 3, at); err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
	}

	hist, err := agg.History("alice", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 days, got %d", len(hist))
	}
	if hist[0].DateKey != "2024-01-03" {
		t.Errorf("expected newest first, got %s", hist[0].DateKey)
	}
}
