package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log <kind>",
		Short: "Log an activity",
		Long: "Log an activity. Kinds: sleep, milk, wetDiaper, dirtyDiaper, solidFood, " +
			"tummyTime, bathTime, medicine.",
		Args: cobra.ExactArgs(1),
		Run:  runLog,
	}

	cmd.Flags().String("at", "", `Start time (default now; "15:04", "2006-01-02 15:04", RFC3339 or "30m ago")`)
	cmd.Flags().String("end", "", "End time for activities with a duration")
	cmd.Flags().Duration("duration", 0, "Duration instead of --end (e.g. 45m)")
	cmd.Flags().Float64("amount", -1, "Amount (ml, grams, doses)")
	cmd.Flags().StringP("note", "n", "", "Free-text note")

	cmd.MarkFlagsMutuallyExclusive("end", "duration")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	at, _ := cmd.Flags().GetString("at")
	endStr, _ := cmd.Flags().GetString("end")
	duration, _ := cmd.Flags().GetDuration("duration")
	amount, _ := cmd.Flags().GetFloat64("amount")
	note, _ := cmd.Flags().GetString("note")

	kind, err := model.ParseKind(args[0])
	if err != nil {
		exitErr("log", err)
	}

	now := time.Now()
	loc := location()
	start, err := parseTime(at, now, loc)
	if err != nil {
		exitErr("--at", err)
	}

	p := store.AddParams{Kind: kind, Start: start, Note: note}
	switch {
	case endStr != "":
		end, err := parseTime(endStr, now, loc)
		if err != nil {
			exitErr("--end", err)
		}
		p.End = &end
	case duration > 0:
		end := start.Add(duration)
		p.End = &end
	case duration < 0:
		exitErr("log", fmt.Errorf("--duration must be positive"))
	}
	if cmd.Flags().Changed("amount") {
		p.Amount = &amount
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Add(cmd.Context(), p)
	if err != nil {
		exitErr("log", err)
	}

	printRecord(localize([]model.ActivityRecord{*rec}, loc)[0])
}
