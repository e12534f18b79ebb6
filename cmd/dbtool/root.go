package main

import (
	"database/sql"
	"delivery-analytics-service/internal/adapters/repositories"
	"delivery-analytics-service/internal/config"
	"delivery-analytics-service/internal/platform/db"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/services"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	pool *sql.DB
)

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Maintain the delivery analytics database and inspect views",
	Long: `dbtool initializes and seeds the configured database (DB_DRIVER, DATABASE_URL
or DB_PATH) and prints officer routes and performance summaries from it.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openDatabase,
	PersistentPostRunE: closeDatabase,
}

func openDatabase(cmd *cobra.Command, args []string) error {
	// A failed command skips the post-run hook and leaves the pool open.
	if err := closeDatabase(cmd, args); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	slog.SetDefault(obs.NewLogger(cmd.ErrOrStderr(), "dbtool", obs.ParseLevel(cfg.LogLevel)))

	pool, err = db.Open(cmd.Context(), cfg.Database.Driver, cfg.DSN())
	return err
}

func closeDatabase(cmd *cobra.Command, args []string) error {
	if pool == nil {
		return nil
	}
	err := pool.Close()
	pool = nil
	return err
}

func newDashboard() (*services.Dashboard, error) {
	repos, err := repositories.NewSet(pool, cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	return services.NewDashboard(
		repos.Events,
		repos.Zones,
		repos.Officers,
		cfg.Palette,
		services.RenderStyle{SuccessColor: cfg.Style.SuccessColor, FailureColor: cfg.Style.FailureColor},
	)
}

// parseDate reads YYYY-MM-DD in the configured timezone.
func parseDate(s string) (time.Time, error) {
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}
