package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/weave/internal/printer"
	"github.com/dyluth/weave/pkg/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Work with Markov model documents",
}

var modelsValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a model document",
	Long: `Parse a Markov model YAML document and check its structural
invariants: non-empty states, start tokens and end tokens, positive
weights and temperatures, walkable states, and resolvable token
references.

Reports the first violated invariant with its machine-readable code.`,
	Args: cobra.ExactArgs(1),
	RunE: runModelsValidate,
}

func init() {
	modelsCmd.AddCommand(modelsValidateCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModelsValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return printer.Error("Failed to read model document", err.Error(), nil)
	}

	var m model.Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return printer.Error(
			"Failed to parse model document",
			err.Error(),
			[]string{"Check the YAML syntax against an existing model file"},
		)
	}

	if genErr := m.Validate(); genErr != nil {
		return renderEngineError("Invalid model", genErr)
	}

	printer.Success("%s is a valid model\n", path)
	return nil
}
