// Command cortex is the operator surface for the perception layer:
// inspect circadian/notification status, push notifications, and replay
// logged events through the filter and router pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cortexkit/cortex/pck/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cortex",
		Short:         "Perception, attention and decision layer for a companion agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (defaults apply when omitted)")

	root.AddCommand(
		newStatusCmd(&configPath),
		newNotifyCmd(&configPath),
		newReplayCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
