package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/fransbot/internal/bot"
	"github.com/example/fransbot/internal/database"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

func runBot(cmd *cobra.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := bot.Repositories{
		Items:    database.NewItemRepository(db),
		Users:    database.NewUserRepository(db),
		Attempts: database.NewAttemptRepository(db),
	}
	items, err := loadItems(ctx, config, repos.Items)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	b := bot.New(api, config, repos, items)

	log.Println("Bot started. Press Ctrl+C to stop.")
	err = b.Run(ctx, updates)
	if errors.Is(err, context.Canceled) {
		log.Println("Bot stopped successfully")
		return nil
	}
	return err
}
