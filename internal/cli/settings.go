package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/settings"
)

func init() {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Reminder settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show reminder settings",
		Run:   runSettingsShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change reminder settings",
		Long:  "Change reminder settings. Only the flags given are updated.",
		Run:   runSettingsSet,
	}
	setCmd.Flags().Bool("enabled", true, "Turn reminders on or off")
	setCmd.Flags().String("kinds", "", "Comma-separated kinds that get reminders (\"all\" for every kind)")
	setCmd.Flags().String("sensitivity", "", "conservative, balanced or aggressive")
	setCmd.Flags().Bool("quiet-hours", true, "Turn quiet hours on or off")
	setCmd.Flags().Int("quiet-start", 22, "Quiet hours start (hour 0-23)")
	setCmd.Flags().Int("quiet-end", 7, "Quiet hours end (hour 0-23)")
	setCmd.Flags().Float64("min-confidence", 0.5, "Minimum prediction confidence for a reminder (0-1)")
	setCmd.Flags().Bool("reset", false, "Restore defaults before applying other flags")

	settingsCmd.AddCommand(showCmd, setCmd)
	RootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rs, err := s.LoadSettings(cmd.Context())
	if err != nil {
		exitErr("load settings", err)
	}
	printSettings(rs)
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rs, err := s.LoadSettings(cmd.Context())
	if err != nil {
		exitErr("load settings", err)
	}
	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		rs = settings.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("enabled") {
		rs.Enabled, _ = flags.GetBool("enabled")
	}
	if flags.Changed("kinds") {
		v, _ := flags.GetString("kinds")
		kinds, err := parseKinds(v)
		if err != nil {
			exitErr("--kinds", err)
		}
		rs.EnabledKinds = kinds
	}
	if flags.Changed("sensitivity") {
		v, _ := flags.GetString("sensitivity")
		rs.Sensitivity = settings.Sensitivity(strings.ToLower(v))
	}
	if flags.Changed("quiet-hours") {
		rs.QuietHoursEnabled, _ = flags.GetBool("quiet-hours")
	}
	if flags.Changed("quiet-start") {
		rs.QuietHoursStart, _ = flags.GetInt("quiet-start")
	}
	if flags.Changed("quiet-end") {
		rs.QuietHoursEnd, _ = flags.GetInt("quiet-end")
	}
	if flags.Changed("min-confidence") {
		rs.MinimumConfidence, _ = flags.GetFloat64("min-confidence")
	}

	if err := s.SaveSettings(cmd.Context(), rs); err != nil {
		exitErr("save settings", err)
	}
	printSettings(rs)
}

func parseKinds(v string) ([]model.Kind, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return []model.Kind{}, nil
	}
	if v == "all" {
		return append([]model.Kind(nil), model.AllKinds...), nil
	}
	var kinds []model.Kind
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := model.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func printSettings(rs settings.ReminderSettings) {
	if !textOutput() {
		printJSON(rs)
		return
	}
	kinds := make([]string, len(rs.EnabledKinds))
	for i, k := range rs.EnabledKinds {
		kinds[i] = string(k)
	}
	fmt.Printf("enabled:        %t\n", rs.Enabled)
	fmt.Printf("kinds:          %s\n", strings.Join(kinds, ", "))
	fmt.Printf("sensitivity:    %s\n", rs.Sensitivity)
	if rs.QuietHoursEnabled {
		fmt.Printf("quiet hours:    %02d:00-%02d:00\n", rs.QuietHoursStart, rs.QuietHoursEnd)
	} else {
		fmt.Println("quiet hours:    off")
	}
	fmt.Printf("min confidence: %.2f\n", rs.MinimumConfidence)
}
