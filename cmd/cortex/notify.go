package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexkit/cortex/pck/config"
	"github.com/cortexkit/cortex/pck/notifications"
)

func newNotifyCmd(configPath *string) *cobra.Command {
	notify := &cobra.Command{
		Use:   "notify",
		Short: "Manage the notification queue",
	}

	var priority string
	push := &cobra.Command{
		Use:   "push <kind> <message>",
		Short: "Push a notification onto the queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openQueue(*configPath)
			if err != nil {
				return err
			}
			defer queue.Close()
			n, err := queue.Push(args[0], args[1], priority, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notification #%d queued\n", n.ID)
			return nil
		},
	}
	push.Flags().StringVar(&priority, "priority", "normal", "urgent, high, normal or low")

	list := &cobra.Command{
		Use:   "list",
		Short: "List unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openQueue(*configPath)
			if err != nil {
				return err
			}
			defer queue.Close()
			out, err := queue.FormatUnread()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	read := &cobra.Command{
		Use:   "read",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openQueue(*configPath)
			if err != nil {
				return err
			}
			defer queue.Close()
			return queue.MarkAllRead()
		},
	}

	notify.AddCommand(push, list, read)
	return notify
}

func openQueue(configPath string) (*notifications.Queue, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return openQueueWith(cfg)
}

func openQueueWith(cfg *config.Config) (*notifications.Queue, error) {
	dbPath, err := cfg.StateFile("notifications.db")
	if err != nil {
		return nil, err
	}
	return notifications.Open(dbPath)
}
