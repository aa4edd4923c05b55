package streak_test

import (
	"testing"
	"time"

	"github.com/aura-wellness/aura/internal/app/streak"
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

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func seedStats(t *testing.T, db *sqlite.DB, s domain.UserAuraStats) {
	t.Helper()
	if err := db.UpdateStats(s); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
}

func TestEvaluate_FirstActivity(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)

	res, err := tr.Evaluate("alice", day(5))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.CurrentStreak != 1 || !res.Extended {
		t.Errorf("expected fresh streak of 1, got %+v", res)
	}
	if res.LastStreakKey != "2024-01-05" {
		t.Errorf("expected last key 2024-01-05, got %s", res.LastStreakKey)
	}
}

func TestEvaluate_ConsecutiveDayExtends(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)
	seedStats(t, db, domain.UserAuraStats{
		UserID: "alice", CurrentStreak: 4, LongestStreak: 4, LastStreakKey: "2024-01-04",
	})

	res, err := tr.Evaluate("alice", day(5))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.CurrentStreak != 5 || !res.Extended {
		t.Errorf("expected streak 5, got %+v", res)
	}
}

func TestEvaluate_SameDayIsNoop(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)

	if _, err := tr.Evaluate("alice", day(5)); err != nil {
		t.Fatalf("first: %v", err)
	}
	res, err := tr.Evaluate("alice", day(5).Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if res.CurrentStreak != 1 || res.Extended || res.Saved || res.Broke {
		t.Errorf("second activity on same day should not change anything, got %+v", res)
	}
}

func TestEvaluate_ShieldBridgesGap(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)
	seedStats(t, db, domain.UserAuraStats{
		UserID: "alice", CurrentStreak: 5, LongestStreak: 5,
		StreakShields: 1, LastStreakKey: "2024-01-01",
	})

	// One missed day (Jan 2), activity on Jan 3 — shield covers it.
	res, err := tr.Evaluate("alice", day(3))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Saved || res.Broke {
		t.Fatalf("expected a save, got %+v", res)
	}
	if res.CurrentStreak != 6 {
		t.Errorf("streak should continue to 6, got %d", res.CurrentStreak)
	}
	if res.ShieldsUsed != 1 {
		t.Errorf("expected 1 shield used, got %d", res.ShieldsUsed)
	}

	_, _, shields, _, err := tr.Current("alice")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if shields != 0 {
		t.Errorf("expected shields exhausted, got %d", shields)
	}
}

func TestEvaluate_GapWithoutShieldsBreaks(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)
	seedStats(t, db, domain.UserAuraStats{
		UserID: "alice", CurrentStreak: 9, LongestStreak: 9, LastStreakKey: "2024-01-01",
	})

	res, err := tr.Evaluate("alice", day(4))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Broke || res.Saved {
		t.Fatalf("expected a break, got %+v", res)
	}
	if res.CurrentStreak != 1 {
		t.Errorf("expected reset to 1, got %d", res.CurrentStreak)
	}

	_, longest, _, _, err := tr.Current("alice")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if longest != 9 {
		t.Errorf("longest streak must survive a break, got %d", longest)
	}
}

func TestEvaluate_TwoDayGapNeedsTwoShields(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)
	seedStats(t, db, domain.UserAuraStats{
		UserID: "alice", CurrentStreak: 5, LongestStreak: 5,
		StreakShields: 1, LastStreakKey: "2024-01-01",
	})

	// Two missed days but only one shield: the streak breaks and the
	// shield is kept.
	res, err := tr.Evaluate("alice", day(4))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Broke {
		t.Fatalf("expected a break, got %+v", res)
	}

	_, _, shields, _, err := tr.Current("alice")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if shields != 1 {
		t.Errorf("partial cover must not consume shields, got %d", shields)
	}
}

func TestEvaluate_MilestoneGrantsShield(t *testing.T) {
	db := testDB(t)
	tr := streak.NewTracker(db, streak.DefaultMilestones)
	seedStats(t, db, domain.UserAuraStats{
		UserID: "alice", CurrentStreak: 6, LongestStreak: 6, LastStreakKey: "2024-01-06",
	})

	res, err := tr.Evaluate("alice", day(7))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Milestone != 7 {
		t.Errorf("expected milestone 7, got %d", res.Milestone)
	}

	_, _, shields, _, err := tr.Current("alice")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if shields != 1 {
		t.Errorf("milestone should grant a shield, got %d", shields)
	}
}
