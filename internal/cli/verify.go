package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura-wellness/aura/internal/app/cheer"
	"github.com/aura-wellness/aura/internal/app/points"
	"github.com/aura-wellness/aura/internal/daemon"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [userID]",
	Short: "Check ledger aggregates and friend-graph symmetry",
	Long: `Verify invariants: the cached points balance must equal the ledger sum
(earn minus spend), and every accepted friend edge should have an accepted
reverse edge.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	ok := true

	if len(args) == 1 {
		ledger := points.NewLedger(db, cfg.Points.DailyCap)
		derived, match, err := ledger.VerifyBalance(args[0])
		if err != nil {
			return err
		}
		if match {
			fmt.Printf("ledger:  OK (balance %d)\n", derived)
		} else {
			fmt.Printf("ledger:  MISMATCH (ledger says %d)\n", derived)
			ok = false
		}
	}

	asym, err := cheer.NewDispatcher(db).VerifySymmetry()
	if err != nil {
		return err
	}
	if len(asym) == 0 {
		fmt.Println("friends: OK (all accepted edges symmetric)")
	} else {
		ok = false
		fmt.Printf("friends: %d asymmetric accepted edge(s)\n", len(asym))
		for _, e := range asym {
			fmt.Printf("  %s -> %s accepted, reverse missing or pending\n", e.OwnerID, e.FriendID)
		}
	}

	if !ok {
		return fmt.Errorf("invariant check failed")
	}
	return nil
}
