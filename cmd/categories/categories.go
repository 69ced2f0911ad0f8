// Package categories provides the command that lists or writes the category vocabulary.
package categories

import (
	"fmt"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/store"

	"github.com/spf13/cobra"
)

var initFile bool

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category vocabulary, or write the default one with --init",
	RunE:  run,
}

func init() {
	Cmd.Flags().BoolVar(&initFile, "init", false, "Write the default vocabulary to categories.file")
}

func run(cmd *cobra.Command, args []string) error {
	file := ""
	if root.AppConfig != nil {
		file = root.AppConfig.Categories.File
	}
	s := store.NewCategoryStore(file, root.Log)

	if initFile {
		if err := s.SaveVocabulary(models.DefaultVocabulary()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Default categories written to %s\n", s.CategoriesFile)
		return err
	}

	vocab, err := s.LoadVocabulary()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, label := range vocab.Labels {
		marker := ""
		switch label {
		case vocab.CatchAll:
			marker = " (catch-all)"
		case vocab.Income:
			marker = " (income)"
		}
		fmt.Fprintf(out, "%s%s\n", label, marker)
	}
	return nil
}
