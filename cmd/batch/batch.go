// Package batch handles batch processing of statement directories
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/container"
	"fjacquet/fincat/internal/export"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parser"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	format  string
	workers int
	noAI    bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Categorize every CSV and OFX statement in an input directory and write one
result per file into an output directory.

A file that fails to parse is reported and skipped; the others are still
written.

Example:
  fincat batch -i statements/ -o categorized/ --workers 4`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&format, "format", "", "Output format (json, csv); defaults to output.format")
	Cmd.Flags().IntVar(&workers, "workers", 2, "Number of files processed concurrently")
	Cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the model and apply the fallback category")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

// Result is the outcome of one file of a batch.
type Result struct {
	Input  string
	Output string
	Count  int
	AIOK   bool
	Err    error
}

func run(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	var opts []container.Option
	if noAI {
		opts = append(opts, container.WithoutAI())
	}
	c, err := root.GetContainer(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	outFormat := format
	if outFormat == "" {
		outFormat = c.GetConfig().Output.Format
	}

	files, err := StatementFiles(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		c.GetLogger().Warn("No statement files found", logging.Field{Key: logging.FieldFile, Value: inputDir})
	}

	results := Process(cmd.Context(), c, files, outputDir, outFormat, workers)

	failed := 0
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAILED  %s: %v\n", filepath.Base(r.Input), r.Err)
			continue
		}
		note := ""
		if !r.AIOK {
			note = ", fallback category"
		}
		fmt.Fprintf(out, "OK      %s -> %s (%d transactions%s)\n", filepath.Base(r.Input), r.Output, r.Count, note)
	}
	fmt.Fprintf(out, "%d processed, %d failed\n", len(results)-failed, failed)

	if failed > 0 && failed == len(results) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

// StatementFiles lists the files of dir whose extension names a supported
// format, sorted by name.
func StatementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if parser.FormatFromFilename(entry.Name()) == models.FormatUnknown {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Process categorizes files with at most n running at once and writes each
// result into outputDir. Results keep the order of files.
func Process(ctx context.Context, c *container.Container, files []string, outputDir, outFormat string, n int) []Result {
	if n < 1 {
		n = 1
	}
	log := c.GetLogger()
	results := make([]Result, len(files))

	var g errgroup.Group
	g.SetLimit(n)
	for i, file := range files {
		g.Go(func() error {
			results[i] = processOne(ctx, c, file, outputDir, outFormat)
			if err := results[i].Err; err != nil {
				log.WithError(err).Warn("Failed to process statement",
					logging.Field{Key: logging.FieldFile, Value: file})
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func processOne(ctx context.Context, c *container.Container, file, outputDir, outFormat string) Result {
	r := Result{Input: file, Output: filepath.Join(outputDir, export.OutputName(file, outFormat))}

	outcome, err := c.GetProcessor().ProcessFile(ctx, file)
	if err != nil {
		r.Err = err
		return r
	}
	if err := c.GetExporter().WriteFile(r.Output, outFormat, outcome.Payload(), outcome.Statement); err != nil {
		r.Err = err
		return r
	}
	r.Count = outcome.Statement.Len()
	r.AIOK = outcome.AIOK
	return r
}
