package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/dyluth/weave/internal/printer"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategies",
	Long: `List the identifiers of every registered generation strategy.

Use 'weave strategies describe <id>' to see a strategy's config surface.`,
	RunE: runStrategies,
}

var strategiesDescribeCmd = &cobra.Command{
	Use:   "describe <id>",
	Short: "Describe a strategy's config surface",
	Long: `Show the required keys, optional keys with their expected types, and
usage notes of one registered strategy.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrategiesDescribe,
}

func init() {
	strategiesCmd.AddCommand(strategiesDescribeCmd)
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return printer.Error("Failed to initialize engine", err.Error(), nil)
	}
	defer rt.Close()

	for _, id := range rt.engine.ListStrategies() {
		printer.Println(id)
	}
	return nil
}

func runStrategiesDescribe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return printer.Error("Failed to initialize engine", err.Error(), nil)
	}
	defer rt.Close()

	id := args[0]
	descriptor, genErr := rt.engine.DescribeStrategy(id)
	if genErr != nil {
		return printer.ErrorWithContext(
			"Unknown strategy",
			genErr.Message,
			map[string]string{"code": genErr.Code},
			[]string{"Run 'weave strategies' to list registered identifiers"},
		)
	}

	printer.Printf("Strategy: %s\n", id)
	if descriptor.Notes != "" {
		printer.Printf("\n%s\n", descriptor.Notes)
	}

	if len(descriptor.Required) > 0 {
		printer.Printf("\nRequired keys:\n")
		required := append([]string(nil), descriptor.Required...)
		sort.Strings(required)
		for _, key := range required {
			printer.Printf("  %s\n", key)
		}
	}

	if len(descriptor.Optional) > 0 {
		printer.Printf("\nOptional keys:\n")
		keys := make([]string, 0, len(descriptor.Optional))
		for key := range descriptor.Optional {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			printer.Printf("  %-20s %s\n", key, descriptor.Optional[key])
		}
	}

	return nil
}
