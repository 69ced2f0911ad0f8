// Package process provides the command that categorizes a single statement file.
package process

import (
	"fmt"
	"path/filepath"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/container"
	"fjacquet/fincat/internal/export"
	"fjacquet/fincat/internal/logging"

	"github.com/spf13/cobra"
)

var (
	format string
	noAI   bool
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Parse and categorize a CSV or OFX statement",
	Long: `Parse a CSV or OFX bank statement, categorize every transaction and write
the result as a JSON report or a CSV table.

Without --output the result is written next to the input (or into
output.directory) as <name>_categorized.<format>.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&format, "format", "", "Output format (json, csv); defaults to output.format")
	Cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the model and apply the fallback category")
}

func run(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input file is required (use --input)")
	}

	var opts []container.Option
	if noAI {
		opts = append(opts, container.WithoutAI())
	}
	c, err := root.GetContainer(cmd.Context(), opts...)
	if err != nil {
		return err
	}
	log := c.GetLogger()
	cfg := c.GetConfig()

	outFormat := format
	if outFormat == "" {
		outFormat = cfg.Output.Format
	}

	output := root.SharedFlags.Output
	if output == "" {
		dir := cfg.Output.Directory
		if dir == "" {
			dir = filepath.Dir(input)
		}
		output = filepath.Join(dir, export.OutputName(input, outFormat))
	}

	log.Info("Processing statement",
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: logging.FieldOutputFile, Value: output})

	outcome, err := c.GetProcessor().ProcessFile(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("error processing %s: %w", input, err)
	}

	if err := c.GetExporter().WriteFile(output, outFormat, outcome.Payload(), outcome.Statement); err != nil {
		return err
	}

	if !outcome.AIOK {
		log.Warn("Categorization unavailable, fallback category applied",
			logging.Field{Key: logging.FieldFile, Value: input})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d transactions written to %s\n", outcome.Statement.Len(), output)
	return err
}
