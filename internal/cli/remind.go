package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/babylog/internal/engine"
	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/notify"
	"github.com/rcliao/babylog/internal/reminder"
	"github.com/rcliao/babylog/internal/settings"
)

func init() {
	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Compute reminders from the current log",
		Long: "Run analyze, predict and schedule over the log. With --sync the new batch replaces " +
			"the stored pending reminders and is posted to the configured webhook. With --watch " +
			"the pass repeats every --interval until interrupted.",
		Run: runRemind,
	}
	remindCmd.Flags().Bool("sync", false, "Replace pending reminders and deliver them")
	remindCmd.Flags().Bool("watch", false, "Keep running and refresh every --interval (implies --sync)")
	remindCmd.Flags().Duration("interval", 5*time.Minute, "Refresh interval for --watch")

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "List pending reminders from the last sync",
		Run:   runPending,
	}

	RootCmd.AddCommand(remindCmd, pendingCmd)
}

func runRemind(cmd *cobra.Command, args []string) {
	sync, _ := cmd.Flags().GetBool("sync")
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	logger := newLogger()
	var sink reminder.NotificationSink
	if sync || watch {
		sinks := []reminder.NotificationSink{s}
		if wc := loadConfig().Webhook; wc.URL != "" {
			sinks = append(sinks, notify.NewWebhook(wc.URL,
				notify.WithTimeout(wc.Timeout),
				notify.WithAttempts(wc.Attempts),
				notify.WithLogger(logger)))
		}
		sink = notify.NewFanout(sinks...)
	}

	e := newEngine(logger, sink, engine.WithListener(func(ctx context.Context, r *engine.Result) error {
		for _, rem := range r.Reminders {
			logger.Debug("reminder", "kind", rem.Kind, "at", rem.ScheduledTime, "priority", rem.Priority)
		}
		if watch {
			printReminders(r.Reminders)
		}
		return nil
	}))

	if watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("watching activity log", "interval", interval, "db", getDBPath())
		err := e.Watch(ctx, interval, func(ctx context.Context) ([]model.ActivityRecord, settings.ReminderSettings, error) {
			return readSnapshot(ctx, s)
		})
		if err != nil && ctx.Err() == nil {
			exitErr("watch", err)
		}
		return
	}

	records, rs := loadSnapshot(cmd.Context(), s)
	result, err := e.Refresh(cmd.Context(), records, rs)
	if err != nil && result == nil {
		exitErr("remind", err)
	}
	printReminders(result.Reminders)
	if err != nil {
		exitErr("remind", err)
	}
}

func runPending(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	reminders, err := s.Pending(cmd.Context())
	if err != nil {
		exitErr("pending", err)
	}
	if textOutput() && len(reminders) == 0 {
		fmt.Println("No pending reminders.")
		return
	}
	printReminders(reminders)
}
