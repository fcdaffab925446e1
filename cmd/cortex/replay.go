package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cortexkit/cortex/pck/attention"
	"github.com/cortexkit/cortex/pck/decision"
	"github.com/cortexkit/cortex/pck/perception"
)

// loggedEvent is the JSONL shape written by external event recorders.
type loggedEvent struct {
	Source    string         `json:"source"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Priority  float64        `json:"priority"`
	Author    string         `json:"author"`
	RawData   map[string]any `json:"raw_data"`
	Timestamp time.Time      `json:"timestamp"`
}

func newReplayCmd(configPath *string) *cobra.Command {
	var logPath string
	var verbose bool

	replay := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded events through the attention and decision pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			params, err := cfg.FilterParams()
			if err != nil {
				return err
			}
			filter, err := attention.NewFilter(params)
			if err != nil {
				return err
			}
			router, err := decision.NewRouter(cfg.RouterActivities(), nil)
			if err != nil {
				return err
			}
			return runReplay(cmd, logPath, verbose, filter, router)
		},
	}
	replay.Flags().StringVar(&logPath, "log", "", "path to event_log.jsonl")
	replay.Flags().BoolVarP(&verbose, "verbose", "v", false, "print suppressed stimuli too")
	replay.MarkFlagRequired("log")
	return replay
}

func runReplay(cmd *cobra.Command, logPath string, verbose bool, filter *attention.Filter, router *decision.Router) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	// Replay runs on logged time, not wall time, so habituation and
	// cooldown behave exactly as they did when the events were recorded.
	var clock time.Time
	filter.WithClock(func() time.Time { return clock })

	var total, surfaced int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var logged loggedEvent
		if err := json.Unmarshal(line, &logged); err != nil {
			return fmt.Errorf("event %d: %w", total+1, err)
		}
		event, err := perception.NewEvent(logged.Source, perception.EventType(logged.Type), logged.Content, logged.Priority)
		if err != nil {
			return fmt.Errorf("event %d: %w", total+1, err)
		}
		if logged.Author != "" {
			event = event.WithAuthor(logged.Author)
		}
		for k, v := range logged.RawData {
			event = event.WithRawData(k, v)
		}
		if !logged.Timestamp.IsZero() {
			event = event.WithTimestamp(logged.Timestamp)
			clock = logged.Timestamp
		} else {
			clock = clock.Add(time.Second)
		}
		total++

		keep, reason := filter.ShouldNotify(event.Source, event.Magnitude())
		if !keep {
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "suppressed %-16s %s\n", event.Source, reason)
			}
			continue
		}
		surfaced++
		action := router.Decide([]perception.Event{event})
		fmt.Fprintf(cmd.OutOrStdout(), "surfaced   %-16s %s\n", event.Source, reason)
		fmt.Fprintf(cmd.OutOrStdout(), "  -> %s: %s\n", action.Name, action.Description)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event log: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d events replayed, %d surfaced, %d suppressed\n",
		total, surfaced, total-surfaced)
	return nil
}
