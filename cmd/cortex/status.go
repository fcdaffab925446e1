package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cortexkit/cortex/pck/circadian"
	"github.com/cortexkit/cortex/pck/notifications"
	"github.com/cortexkit/cortex/pck/timelog"
)

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show circadian mode, pending notifications and the current task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			circadianState, err := cfg.StateFile("circadian_state.json")
			if err != nil {
				return err
			}
			rhythm := circadian.NewRhythm(circadianState)
			status := rhythm.Status(time.Now())
			fmt.Fprintf(out, "%s %s — %s (energy: %s)\n",
				status.Meta.Icon, status.Meta.Name, status.Meta.Description, status.Meta.EnergyLevel)
			for _, s := range status.Suggestions {
				fmt.Fprintf(out, "  [%s] %s\n", s.Priority, s.Message)
			}

			timelogState, err := cfg.StateFile("timestamp_log.json")
			if err != nil {
				return err
			}
			tl := timelog.New(timelogState).Status()
			if tl.CurrentTask != "" {
				fmt.Fprintf(out, "\nCurrent task: %s (%dm elapsed)\n", tl.CurrentTask, tl.TaskElapsed)
			} else {
				fmt.Fprintln(out, "\nNo task running")
			}

			dbPath, err := cfg.StateFile("notifications.db")
			if err != nil {
				return err
			}
			queue, err := notifications.Open(dbPath)
			if err != nil {
				return err
			}
			defer queue.Close()
			unread, err := queue.Unread()
			if err != nil {
				return err
			}
			kinds := make(map[string]int)
			for _, n := range unread {
				kinds[n.Kind]++
			}
			names := make([]string, 0, len(kinds))
			for k := range kinds {
				names = append(names, k)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "\nUnread notifications: %d\n", len(unread))
			for _, k := range names {
				fmt.Fprintf(out, "  %s: %d\n", k, kinds[k])
			}
			return nil
		},
	}
}
