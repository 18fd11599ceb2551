package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the activity log as JSON",
		Long:  "Export every live activity, oldest first, as a JSON array. Filter by kind with --kind.",
		Run:   runExport,
	}

	cmd.Flags().String("kind", "", "Filter by kind")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	kindStr, _ := cmd.Flags().GetString("kind")

	var kind model.Kind
	if kindStr != "" {
		k, err := model.ParseKind(kindStr)
		if err != nil {
			exitErr("export", err)
		}
		kind = k
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context(), kind)
	if err != nil {
		exitErr("export", err)
	}
	if records == nil {
		records = []model.ActivityRecord{}
	}

	printJSON(records)
}
