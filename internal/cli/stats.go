package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(stats)
		return
	}
	fmt.Printf("db: %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Printf("activities: %d live, %d total\n", stats.ActiveActivities, stats.TotalActivities)
	fmt.Printf("pending reminders: %d\n", stats.PendingReminders)
	loc := location()
	for _, k := range stats.Kinds {
		fmt.Printf("  %-12s %5d  %s .. %s\n", k.Kind, k.Count,
			k.First.In(loc).Format("2006-01-02 15:04"), k.Last.In(loc).Format("2006-01-02 15:04"))
	}
}
