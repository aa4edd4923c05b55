package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aura-wellness/aura/internal/app/points"
	"github.com/aura-wellness/aura/internal/app/score"
	"github.com/aura-wellness/aura/internal/daemon"
	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <userID>",
	Short: "Show a user's gamification stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	userID := args[0]

	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = daemon.AuraHome()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	ledger := points.NewLedger(db, cfg.Points.DailyCap)
	stats, err := ledger.Stats(userID)
	if err != nil {
		return err
	}

	fmt.Printf("User:             %s\n", userID)
	fmt.Printf("Level:            %d\n", stats.Level)
	fmt.Printf("Total points:     %d\n", stats.TotalPoints)
	fmt.Printf("Available points: %d\n", stats.AvailablePoints)
	fmt.Printf("Earned today:     %d / %d\n", stats.DailyPointsEarned, ledger.DailyCap())
	fmt.Printf("Current streak:   %d days (longest %d)\n", stats.CurrentStreak, stats.LongestStreak)
	fmt.Printf("Streak shields:   %d\n", stats.StreakShields)

	agg := score.NewAggregator(db)
	today := domain.DateKey(time.Now())
	if ds, err := agg.ScoreFor(userID, today); err == nil {
		fmt.Printf("Today's score:    %d (mood %d, boosts %d)\n",
			ds.Score, ds.MoodComponent, ds.BoostsComponent)
	} else {
		fmt.Printf("Today's score:    — (no mood check-in yet)\n")
	}

	return nil
}
