package sqlite_test

import (
	"testing"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEvents_InsertAndRange(t *testing.T) {
	db := testDB(t)

	base := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	evts := []domain.ActivityEvent{
		{ID: "e1", UserID: "alice", Kind: domain.KindMoodCheckin, OccurredAt: base, Mood: 4},
		{ID: "e2", UserID: "alice", Kind: domain.KindBoostComplete, OccurredAt: base.Add(time.Hour), Ref: "breathe-1"},
		{ID: "e3", UserID: "alice", Kind: domain.KindBoostComplete, OccurredAt: base.Add(2 * time.Hour), Ref: "gratitude"},
		{ID: "e4", UserID: "bob", Kind: domain.KindJournalEntry, OccurredAt: base},
	}
	for _, e := range evts {
		if err := db.InsertEvent(e); err != nil {
			t.Fatalf("insert %s: %v", e.ID, err)
		}
	}

	got, err := db.EventsInRange("alice", base, base.Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events for alice, got %d", len(got))
	}
	// Ascending by occurred_at
	for i := 1; i < len(got); i++ {
		if got[i].OccurredAt.Before(got[i-1].OccurredAt) {
			t.Errorf("events not ascending at %d", i)
		}
	}

	boosts, err := db.EventsInRange("alice", base, base.Add(24*time.Hour), domain.KindBoostComplete)
	if err != nil {
		t.Fatalf("range kind: %v", err)
	}
	if len(boosts) != 2 {
		t.Errorf("expected 2 boosts, got %d", len(boosts))
	}

	count, err := db.CountEventsOnDay("alice", "2024-01-05", domain.KindBoostComplete)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 boosts on day, got %d", count)
	}
}

func TestDailyScore_UpsertOverwrites(t *testing.T) {
	db := testDB(t)

	first := domain.DailyScore{
		UserID: "alice", DateKey: "2024-01-05",
		MoodComponent: 25, BoostsComponent: 0, Score: 13,
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertDailyScore(first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := first
	second.MoodComponent = 100
	second.BoostsComponent = 40
	second.Score = 62
	if err := db.UpsertDailyScore(second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := db.GetDailyScore("alice", "2024-01-05")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a score record")
	}
	if got.Score != 62 || got.MoodComponent != 100 {
		t.Errorf("expected last write to win, got score=%d mood=%d", got.Score, got.MoodComponent)
	}
}

func TestDailyScore_MissingIsNil(t *testing.T) {
	db := testDB(t)
	got, err := db.GetDailyScore("ghost", "2024-01-05")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing score, got %+v", got)
	}
}

func TestLedger_TransactionWithStats(t *testing.T) {
	db := testDB(t)

	tx := domain.PointsTransaction{
		ID: "t1", UserID: "alice", Type: domain.TxEarn,
		Source: "mood:2024-01-05", Amount: 5, OccurredAt: time.Now(),
	}
	stats := domain.UserAuraStats{
		UserID: "alice", TotalPoints: 5, AvailablePoints: 5,
		DailyPointsEarned: 5, DailyKey: "2024-01-05",
	}
	if err := db.InsertTransactionWithStats(tx, stats); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.GetStats("alice")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.AvailablePoints != 5 {
		t.Errorf("expected balance 5, got %d", got.AvailablePoints)
	}

	earned, spent, err := db.LedgerSums("alice")
	if err != nil {
		t.Fatalf("sums: %v", err)
	}
	if earned != 5 || spent != 0 {
		t.Errorf("expected earned 5 spent 0, got %d/%d", earned, spent)
	}
}

func TestLedger_EarnSourceUnique(t *testing.T) {
	db := testDB(t)

	tx := domain.PointsTransaction{
		ID: "t1", UserID: "alice", Type: domain.TxEarn,
		Source: "meditation_complete:sess1", Amount: 15, OccurredAt: time.Now(),
	}
	stats := domain.UserAuraStats{UserID: "alice", TotalPoints: 15, AvailablePoints: 15}
	if err := db.InsertTransactionWithStats(tx, stats); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	dup := tx
	dup.ID = "t2"
	if err := db.InsertTransactionWithStats(dup, stats); err == nil {
		t.Error("expected unique constraint violation on duplicate earn source")
	}

	found, err := db.FindEarnBySource("alice", "meditation_complete:sess1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.ID != "t1" {
		t.Errorf("expected to find t1, got %+v", found)
	}
}

func TestFriends_SymmetryQuery(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	// alice<->bob symmetric, carol->alice asymmetric
	edges := []domain.FriendEdge{
		{OwnerID: "alice", FriendID: "bob", Status: domain.FriendAccepted, CreatedAt: now},
		{OwnerID: "bob", FriendID: "alice", Status: domain.FriendAccepted, CreatedAt: now},
		{OwnerID: "carol", FriendID: "alice", Status: domain.FriendAccepted, CreatedAt: now},
		{OwnerID: "alice", FriendID: "carol", Status: domain.FriendPending, CreatedAt: now},
	}
	for _, e := range edges {
		if err := db.UpsertFriendEdge(e); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	asym, err := db.AsymmetricAcceptedEdges()
	if err != nil {
		t.Fatalf("asym: %v", err)
	}
	if len(asym) != 1 {
		t.Fatalf("expected 1 asymmetric edge, got %d", len(asym))
	}
	if asym[0].OwnerID != "carol" || asym[0].FriendID != "alice" {
		t.Errorf("expected carol->alice, got %s->%s", asym[0].OwnerID, asym[0].FriendID)
	}
}

func TestCheerNotices_PendingAndSeen(t *testing.T) {
	db := testDB(t)

	id, err := db.InsertCheerNotice(domain.CheerNotice{
		FromUID: "alice", ToUID: "bob", Kind: domain.CheerStreakSave,
		Body: "kept a 5-day streak alive with a shield", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := db.ListPendingCheers("bob", 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}

	if err := db.MarkCheerSeen(id); err != nil {
		t.Fatalf("seen: %v", err)
	}
	pending, _ = db.ListPendingCheers("bob", 10)
	if len(pending) != 0 {
		t.Error("expected 0 pending after marking seen")
	}
}
