package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/weave/internal/config"
	"github.com/dyluth/weave/internal/printer"
	"github.com/dyluth/weave/pkg/engine"
)

var (
	generateFile  string
	generateSeed  string
	generateCount int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a generation request",
	Long: `Run one generation request from a YAML request file and print the
result. The request file is a mapping with at least a strategy key and,
for top-level requests, a seed.

With --count N the request runs N times with seed-suffixed variants
(seed-0, seed-1, ...), producing N related but distinct results. Each
variant is itself fully reproducible.

Examples:
  # Run one request
  weave generate -f request.yml

  # Same request, explicit seed override
  weave generate -f request.yml --seed tavern-42

  # Ten reproducible variants
  weave generate -f request.yml --seed tavern --count 10`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Request file (required)")
	generateCmd.Flags().StringVar(&generateSeed, "seed", "", "Override the request's seed")
	generateCmd.Flags().IntVar(&generateCount, "count", 1, "Number of seed-suffixed variants to generate")
	generateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateCount < 1 {
		return printer.Error(
			"Invalid count",
			fmt.Sprintf("--count must be >= 1, got %d.", generateCount),
			nil,
		)
	}

	request, err := config.LoadRequest(generateFile)
	if err != nil {
		return printer.Error(
			"Failed to load request",
			err.Error(),
			[]string{"Check that the file exists and is a YAML mapping"},
		)
	}

	if generateSeed != "" {
		request["seed"] = generateSeed
	}

	rt, err := newRuntime()
	if err != nil {
		return printer.Error("Failed to initialize engine", err.Error(), nil)
	}
	defer rt.Close()

	if generateCount == 1 {
		result, genErr := rt.engine.Generate(request)
		if genErr != nil {
			return renderEngineError("Generation failed", genErr)
		}
		printer.Println(result)
		return nil
	}

	baseSeed, ok := request.String("seed")
	if !ok {
		return printer.Error(
			"Missing seed for variants",
			"--count > 1 derives variant seeds from the request seed, but the request has none.",
			[]string{"Add a seed to the request file", "Pass one with --seed"},
		)
	}

	for i := 0; i < generateCount; i++ {
		variant := request.Clone()
		variant["seed"] = fmt.Sprintf("%s-%d", baseSeed, i)

		result, genErr := rt.engine.Generate(variant)
		if genErr != nil {
			return renderEngineError("Generation failed", genErr)
		}
		printer.Println(result)
	}

	return nil
}

// renderEngineError prints a structured engine error with its code and
// details and returns a plain error for cobra.
func renderEngineError(title string, genErr *engine.Error) error {
	context := map[string]string{"code": genErr.Code}
	for key, value := range genErr.Details {
		context[key] = fmt.Sprintf("%v", value)
	}

	return printer.ErrorWithContext(title, genErr.Message, context, nil)
}
