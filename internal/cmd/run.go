package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/supplyline/internal/config"
	"github.com/matthieukhl/supplyline/internal/manufacturer"
	"github.com/matthieukhl/supplyline/internal/server"
	"github.com/matthieukhl/supplyline/internal/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a supply chain simulation",
	Long: `Run a complete simulation over the configured number of days and
print the manufacturer's daily and total profit. With the status server
enabled, live snapshots are available at /api/status while it runs.`,
	RunE: runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	fmt.Println("🏭 Supplyline Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger()

	var onSnapshot func(manufacturer.Snapshot)
	if cfg.Server.Enabled {
		gin.SetMode(gin.ReleaseMode)
		store := &server.Store{}
		onSnapshot = store.Publish
		srv := server.NewServer(store)
		fmt.Printf("🌐 Status server on %s\n", cfg.Server.Addr)
		go func() {
			if err := srv.Start(cfg.Server.Addr); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	fmt.Printf("⚙️  Simulating %d days (%d suppliers, %d customers)...\n",
		cfg.Simulation.Days, len(cfg.Suppliers), len(cfg.Customers))

	report, err := sim.Run(cmd.Context(), cfg, logger, onSnapshot)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Println("\n📊 Daily results:")
	for _, d := range report.History {
		fmt.Printf("  day %2d: revenue %8s  storage %7s  penalty %7s  procurement %8s  profit %8s\n",
			d.Day, d.Revenue, d.StorageCost, d.LatePenalty, d.Procurement, d.Profit)
	}
	fmt.Printf("\n💰 Total profit over %d days: %s\n", report.Days, report.TotalProfit)
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
