package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search activity notes by keyword",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("kind", "", "Filter by kind")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	kindStr, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	p := store.SearchParams{Query: query, Limit: limit}
	if kindStr != "" {
		kind, err := model.ParseKind(kindStr)
		if err != nil {
			exitErr("search", err)
		}
		p.Kind = kind
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), p)
	if err != nil {
		exitErr("search", err)
	}

	printRecords(localize(results, location()))
}
