package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyluth/weave/internal/printer"
	"github.com/dyluth/weave/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor generation events in real time",
	Long: `Subscribe to the project's Redis generation-events channel and print
lifecycle events as they happen. Requires telemetry.redis in weave.yml.

Press Ctrl+C to stop.

Examples:
  # Watch the instance configured in weave.yml
  weave watch

  # Watch another project
  weave watch --config other/weave.yml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return printer.Error("Failed to initialize engine", err.Error(), nil)
	}
	defer rt.Close()

	if rt.recorder == nil {
		return printer.Error(
			"Telemetry is not configured",
			"Watching generation events needs a Redis connection.",
			[]string{"Add a telemetry.redis section to weave.yml"},
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := rt.recorder.SubscribeGenerationEvents(ctx)
	if err != nil {
		return printer.Error("Failed to subscribe to generation events", err.Error(), nil)
	}
	defer sub.Close()

	printer.Step("Watching generation events for instance '%s' (Ctrl+C to stop)\n", rt.cfg.Project.Name)

	for {
		select {
		case <-ctx.Done():
			printer.Info("\nStopped watching.\n")
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			printEvent(event)
		case err, ok := <-sub.Errors():
			if ok && err != nil {
				printer.Warning("skipped event: %v\n", err)
			}
		}
	}
}

// printEvent renders one lifecycle event on a single line.
func printEvent(event *telemetry.GenerationEvent) {
	timestamp := event.Timestamp.Local().Format("15:04:05")

	switch event.Phase {
	case telemetry.PhaseStarted:
		printer.Info("%s  %s  %s  started  stream=%s\n",
			timestamp, shortID(event.GenerationID), event.StrategyID, event.StreamName)
	case telemetry.PhaseCompleted:
		printer.Success("%s  %s  %s  %q\n",
			timestamp, shortID(event.GenerationID), event.StrategyID, event.Result)
	case telemetry.PhaseFailed:
		code, _ := event.Error["code"].(string)
		message, _ := event.Error["message"].(string)
		printer.Warning("%s  %s  %s  failed  %s: %s\n",
			timestamp, shortID(event.GenerationID), event.StrategyID, code, message)
	default:
		printer.Info("%s  %s  %s  %s\n",
			timestamp, shortID(event.GenerationID), event.StrategyID, event.Phase)
	}
}

// shortID truncates a generation UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
