package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/database"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "데이터베이스 점검/스키마",
	Long: `PostgreSQL 연결을 점검하고 quant 스키마를 생성합니다.

Example:
  go run ./cmd/quant db check
  go run ./cmd/quant db migrate`,
}

var (
	dbCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "연결 + Health Check + Pool 통계 + 테이블 행 수",
		RunE:  runDBCheck,
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "스키마 생성 (멱등)",
		RunE:  runDBMigrate,
	}
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCheckCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}

func openDB(ctx context.Context) (*database.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, cfg, nil
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, cfg, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database URL: %s\n", redactURL(cfg.Database.URL))

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintf(out, "✅ Healthy: %v (%v)\n", status.Healthy, status.ResponseTime)
	fmt.Fprintln(out, "📊 Connection Pool Statistics:")
	fmt.Fprintf(out, "   Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Fprintf(out, "   Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Fprintf(out, "   Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Fprintf(out, "   Idle Connections: %d\n", status.Stats.IdleConns)
	fmt.Fprintf(out, "   Acquire Count: %d\n", status.Stats.AcquireCount)

	counts, err := db.TableCounts(ctx)
	if err != nil {
		fmt.Fprintf(out, "⚠️  quant schema missing, run `quant db migrate` (%v)\n", err)
		return nil
	}
	fmt.Fprintln(out, "📦 quant tables:")
	for _, table := range database.Tables {
		fmt.Fprintf(out, "   %-22s %d rows\n", table, counts[table])
	}
	return nil
}

func runDBMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, _, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ quant schema is up to date")
	return nil
}

// redactURL hides the password in a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
