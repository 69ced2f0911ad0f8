// Package inspect provides the command that shows how a CSV statement is read.
package inspect

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/csvparser"
	"fjacquet/fincat/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the detected delimiter, headers and column mapping of a CSV statement",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input file is required (use --input)")
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", input, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close file")
		}
	}()

	var opts []csvparser.Option
	if root.AppConfig != nil {
		opts = append(opts,
			csvparser.WithEncoding(root.AppConfig.CSV.Encoding),
			csvparser.WithSampleSize(root.AppConfig.CSV.SampleSize))
	}
	layout, err := csvparser.NewParser(root.Log, opts...).Inspect(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Delimiter: %q\n", layout.Delimiter)
	fmt.Fprintf(out, "Headers:   %s\n", strings.Join(layout.Headers, " | "))
	fmt.Fprintln(out, "Mapping:")
	for _, role := range models.ColumnRoles {
		idx, ok := layout.Mapping.Index(role)
		if !ok {
			fmt.Fprintf(out, "  %-12s -\n", role)
			continue
		}
		fmt.Fprintf(out, "  %-12s %d (%s)\n", role, idx, layout.Headers[idx])
	}
	if !layout.Mapping.Has(models.RoleDate) || !layout.Mapping.Has(models.RoleDescription) || !layout.Mapping.HasAmount() {
		fmt.Fprintln(out, "Warning: mapping is incomplete, rows will be skipped")
	}
	return nil
}
