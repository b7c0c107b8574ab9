package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/internal/s1_universe"
	"github.com/wonny/aegis-quant/internal/strategyconfig"
	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/database"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "유니버스 조회",
}

var (
	universeListCmd = &cobra.Command{
		Use:   "list [name]",
		Short: "유니버스 목록 또는 특정 리스트 출력",
		Long: `인자 없이 실행하면 리스트 이름과 종목 수를, 이름을 주면 종목을 출력합니다.
"all"은 전체 합집합입니다. --save 시 DB에 스냅샷을 저장합니다.

Example:
  go run ./cmd/quant universe list
  go run ./cmd/quant universe list growth
  go run ./cmd/quant universe list all --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUniverseList,
	}

	universeSave bool
)

var universeDiffCmd = &cobra.Command{
	Use:   "diff <name>",
	Short: "현재 목록과 마지막 저장 스냅샷 비교",
	Args:  cobra.ExactArgs(1),
	RunE:  runUniverseDiff,
}

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd)

	universeCmd.AddCommand(universeDiffCmd)
	universeListCmd.Flags().BoolVar(&universeSave, "save", false, "DB에 유니버스 스냅샷 저장")
}

// loadUniverse loads config and the strategy exclusions only, no network
func loadUniverse() (*config.Config, *s1_universe.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if strategyPath != "" {
		cfg.StrategyConfig = strategyPath
	}
	strat, _, err := strategyconfig.LoadOrDefault(cfg.StrategyConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}
	return cfg, s1_universe.NewManager(s1_universe.Config{ExcludeSymbols: strat.Universe.ExcludeSymbols}), nil
}

func runUniverseList(cmd *cobra.Command, args []string) error {
	cfg, manager, err := loadUniverse()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, name := range manager.Names() {
			u, _ := manager.List(name)
			fmt.Fprintf(out, "%-16s %3d symbols\n", name, u.Count())
		}
		fmt.Fprintf(out, "%-16s %3d symbols\n", "all", manager.All().Count())
		return nil
	}

	var u *contracts.Universe
	if args[0] == "all" {
		u = manager.All()
	} else if u, err = manager.List(args[0]); err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Join(u.Stocks, " "))
	for sym, reason := range u.Excluded {
		fmt.Fprintf(out, "excluded %s: %s\n", sym, reason)
	}

	if !universeSave {
		return nil
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("--save requires DB_ENABLED=true")
	}
	ctx := context.Background()
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := s1_universe.NewRepository(db.Pool).SaveUniverse(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s (%d symbols)\n", u.Name, u.Count())
	return nil
}

func runUniverseDiff(cmd *cobra.Command, args []string) error {
	cfg, manager, err := loadUniverse()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("diff requires DB_ENABLED=true")
	}

	cur, err := manager.List(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	prev, err := s1_universe.NewRepository(db.Pool).GetLatestUniverse(ctx, args[0])
	if err != nil {
		return err
	}

	added, removed := s1_universe.Diff(prev, cur)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: saved %s (%d) → current (%d)\n", cur.Name, prev.Date.Format("2006-01-02"), prev.Count(), cur.Count())
	fmt.Fprintf(out, "  + %s\n", strings.Join(added, " "))
	fmt.Fprintf(out, "  - %s\n", strings.Join(removed, " "))
	return nil
}
