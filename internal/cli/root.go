// Package cli implements the babylog CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/config"
	"github.com/rcliao/babylog/internal/engine"
	"github.com/rcliao/babylog/internal/logging"
	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/reminder"
	"github.com/rcliao/babylog/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	verbose    bool

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "babylog",
	Short: "Baby activity log with learned reminders",
	Long: "A tiny CLI for logging baby activities. It learns how often each kind happens " +
		"and predicts the next one. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $BABYLOG_DB or ~/.babylog/babylog.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $BABYLOG_CONFIG)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

func loadConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	c, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	cfg = c
	return cfg
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if c := loadConfig(); c.DB != "" {
		return c.DB
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".babylog", "babylog.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() *slog.Logger {
	level := loadConfig().LogLevel
	if verbose {
		level = "debug"
	}
	return logging.Setup(level, os.Stderr)
}

func location() *time.Location {
	loc, err := loadConfig().Location()
	if err != nil {
		exitErr("timezone", err)
	}
	return loc
}

func newEngine(logger *slog.Logger, sink reminder.NotificationSink, extra ...engine.Option) *engine.Engine {
	c := loadConfig()
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithCacheTTL(c.CacheTTL),
	}
	if w := c.Window(); w > 0 {
		opts = append(opts, engine.WithWindow(w))
	}
	if sink != nil {
		opts = append(opts, engine.WithSink(sink))
	}
	return engine.New(append(opts, extra...)...)
}

// localize moves every timestamp into loc so hour-of-day buckets and quiet
// hours are evaluated on the family's wall clock.
func localize(records []model.ActivityRecord, loc *time.Location) []model.ActivityRecord {
	out := make([]model.ActivityRecord, len(records))
	for i, r := range records {
		r.StartTime = r.StartTime.In(loc)
		r.CreatedAt = r.CreatedAt.In(loc)
		if r.EndTime != nil {
			end := r.EndTime.In(loc)
			r.EndTime = &end
		}
		out[i] = r
	}
	return out
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
