package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/practice"
	"github.com/spf13/cobra"
)

var verbsCmd = &cobra.Command{
	Use:   "verbs",
	Short: "List the verbs and tenses available for drilling",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDatabase(config)
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := loadItems(context.Background(), config, database.NewItemRepository(db))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-9s  %s\n", "Verb", "Sentences", "Tenses")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, lemma := range practice.Lemmas(items) {
			count := len(practice.Filter(items, lemma, nil))
			fmt.Fprintf(out, "%-12s  %-9d  %s\n", lemma, count, strings.Join(practice.Tenses(items, lemma), ", "))
		}
		return nil
	},
}
