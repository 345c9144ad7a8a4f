package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/example/fransbot/internal/bot"
	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/excel"
	"github.com/example/fransbot/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fransbot",
	Short: "French verb conjugation drills",
	Long: "fransbot drills French conjugations with fill-in-the-blank sentences, " +
		"showing the sentences you get wrong more often. Without a subcommand it runs the Telegram bot.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")
	rootCmd.PersistentFlags().String("data", "", "Spreadsheet or CSV with sentences to load (overrides DATA_FILE env var)")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(verbsCmd)
}

// loadConfig reads the environment and applies the persistent flags on top
func loadConfig(cmd *cobra.Command) (*bot.Config, error) {
	config, err := bot.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		config.Database.Type = database.TypeSQLite
		config.Database.Path = p
	}
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		config.DataFile = p
	}
	return config, nil
}

// loadItems returns the sentences to drill. A configured data file replaces the
// stored sentences; otherwise the stored ones are used, and the built-in set
// when nothing is stored yet.
func loadItems(ctx context.Context, config *bot.Config, repo *database.ItemRepository) ([]models.Item, error) {
	if config.DataFile != "" {
		cfg := excel.DefaultImportConfig()
		cfg.FilePath = config.DataFile
		result, err := excel.LoadItems(cfg)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", config.DataFile, err)
		}
		for _, e := range result.Errors {
			log.Printf("Skipped: %s", e)
		}
		if err := repo.ReplaceAll(ctx, result.Items); err != nil {
			return nil, err
		}
		log.Printf("Loaded %d sentences from %s", len(result.Items), config.DataFile)
		return result.Items, nil
	}

	items, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	log.Println("No sentences stored yet, using the built-in set")
	return excel.FallbackItems(), nil
}

func openDatabase(config *bot.Config) (*sqlx.DB, error) {
	db, err := database.Connect(config.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
