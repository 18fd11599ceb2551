package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activities",
		Run:   runList,
	}

	cmd.Flags().String("kind", "", "Filter by kind")
	cmd.Flags().String("since", "", `Only activities starting at or after (e.g. "24h ago")`)
	cmd.Flags().String("until", "", "Only activities starting at or before")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	kindStr, _ := cmd.Flags().GetString("kind")
	sinceStr, _ := cmd.Flags().GetString("since")
	untilStr, _ := cmd.Flags().GetString("until")
	limit, _ := cmd.Flags().GetInt("limit")

	p := store.ListParams{Limit: limit}
	if kindStr != "" {
		kind, err := model.ParseKind(kindStr)
		if err != nil {
			exitErr("list", err)
		}
		p.Kind = kind
	}

	now := time.Now()
	loc := location()
	if sinceStr != "" {
		t, err := parseTime(sinceStr, now, loc)
		if err != nil {
			exitErr("--since", err)
		}
		p.Since = t
	}
	if untilStr != "" {
		t, err := parseTime(untilStr, now, loc)
		if err != nil {
			exitErr("--until", err)
		}
		p.Until = t
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.List(cmd.Context(), p)
	if err != nil {
		exitErr("list", err)
	}

	printRecords(localize(records, loc))
}
