package commands

import (
	"encoding/json"
	"fmt"

	"demandcast/internal/pipeline"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

var schemaTarget string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of forecast output or run parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			schema *jsonschema.Schema
			err    error
		)
		switch schemaTarget {
		case "result":
			schema, err = jsonschema.For[pipeline.Result](nil)
		case "params":
			schema, err = jsonschema.For[pipeline.Params](nil)
		default:
			return fmt.Errorf("unknown schema %q: expected result or params", schemaTarget)
		}
		if err != nil {
			return fmt.Errorf("failed to infer schema: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaTarget, "for", "result", "which document to describe: result or params")
	rootCmd.AddCommand(schemaCmd)
}
