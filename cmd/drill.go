package cmd

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/example/fransbot/internal/console"
	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/practice"
	sr "github.com/example/fransbot/internal/spaced_repetition"
	"github.com/spf13/cobra"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practice conjugations in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		db, err := openDatabase(config)
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := loadItems(ctx, config, database.NewItemRepository(db))
		if err != nil {
			return err
		}

		verb, _ := cmd.Flags().GetString("verb")
		tenses, _ := cmd.Flags().GetStringSlice("tense")
		strict, _ := cmd.Flags().GetBool("strict")
		excludePrevious, _ := cmd.Flags().GetBool("exclude-previous")
		seed, _ := cmd.Flags().GetInt64("seed")

		if verb == "" {
			if lemmas := practice.Lemmas(items); len(lemmas) > 0 {
				verb = lemmas[0]
			}
		}
		if len(tenses) == 0 {
			tenses = []string{practice.AllTenses}
		}

		normalization := sr.NormalizeTrim
		if strict || config.StrictWhitespace {
			normalization = sr.NormalizeStrict
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		scheduler := sr.NewScheduler(sr.Config{
			Normalization:   normalization,
			ExcludePrevious: excludePrevious || config.ExcludePrevious,
			Rand:            rand.New(rand.NewSource(seed)),
		})

		drill := console.NewDrill(items, scheduler, practice.Selection{Lemma: verb, Tenses: tenses}, cmd.OutOrStdout())
		err = drill.Run(ctx, cmd.InOrStdin())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	drillCmd.Flags().String("verb", "", "Verb to drill (defaults to the first verb in the list)")
	drillCmd.Flags().StringSlice("tense", nil, "Tenses to drill, comma separated (defaults to all tenses)")
	drillCmd.Flags().Bool("strict", false, "Ignore whitespace inside answers")
	drillCmd.Flags().Bool("exclude-previous", false, "Never show the same sentence twice in a row")
	drillCmd.Flags().Int64("seed", 0, "Random seed for a reproducible drill")
}
