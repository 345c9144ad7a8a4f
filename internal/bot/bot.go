package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/fransbot/internal/ai"
	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/practice"
	"github.com/example/fransbot/internal/scheduler"
	sr "github.com/example/fransbot/internal/spaced_repetition"
	"github.com/example/fransbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultMaxUpload = 20 << 20

// Sender is the part of the Telegram API the bot talks to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Repositories bundles the storage the bot uses
type Repositories struct {
	Items    *database.ItemRepository
	Users    *database.UserRepository
	Attempts *database.AttemptRepository
}

// chatState is the drill of one chat. mu serializes the user's actions.
type chatState struct {
	mu             sync.Mutex
	userID         int64
	session        *practice.Session
	awaitingUpload bool
	// Set when loading the user failed; the state is dropped and must be fetched again
	failed atomic.Bool
}

// Bot represents the Telegram bot application
type Bot struct {
	api        Sender
	config     *Config
	repos      Repositories
	scheduler  *sr.Scheduler
	explainer  *ai.Explainer
	reminders  *scheduler.Scheduler
	httpClient *http.Client
	maxUpload  int64

	itemsMu sync.RWMutex
	items   []models.Item

	mu    sync.Mutex
	chats map[int64]*chatState
}

// New creates a bot drilling items
func New(api Sender, config *Config, repos Repositories, items []models.Item) *Bot {
	if config == nil {
		config = DefaultConfig()
	}

	normalization := sr.NormalizeTrim
	if config.StrictWhitespace {
		normalization = sr.NormalizeStrict
	}

	b := &Bot{
		api:    api,
		config: config,
		repos:  repos,
		scheduler: sr.NewScheduler(sr.Config{
			Normalization:   normalization,
			ExcludePrevious: config.ExcludePrevious,
		}),
		explainer: ai.NewExplainer(ai.Config{
			APIKey:  config.OpenAIAPIKey,
			BaseURL: config.OpenAIBaseURL,
			Model:   config.OpenAIModel,
		}),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxUpload:  defaultMaxUpload,
		items:      items,
		chats:      make(map[int64]*chatState),
	}

	if config.EnableScheduler && repos.Users != nil {
		b.reminders = scheduler.New(b, repos.Users, scheduler.Config{
			StartHour: config.NotificationStartHour,
			EndHour:   config.NotificationEndHour,
		})
	}
	return b
}

// Run handles updates until ctx is cancelled or the channel is closed
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	if b.reminders != nil {
		if err := b.reminders.Start(); err != nil {
			return fmt.Errorf("failed to start reminders: %w", err)
		}
		defer b.reminders.Stop()
		log.Println("Reminder scheduler started successfully")
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}(update)
		}
	}
}

// Items returns the items currently drilled
func (b *Bot) Items() []models.Item {
	b.itemsMu.RLock()
	defer b.itemsMu.RUnlock()
	return b.items
}

// SetItems replaces the drilled items and refreshes every open session
func (b *Bot) SetItems(items []models.Item) {
	b.itemsMu.Lock()
	b.items = items
	b.itemsMu.Unlock()

	b.mu.Lock()
	chats := make([]*chatState, 0, len(b.chats))
	for _, st := range b.chats {
		chats = append(chats, st)
	}
	b.mu.Unlock()

	for _, st := range chats {
		st.mu.Lock()
		sel := st.session.Selection()
		if len(practice.Filter(items, sel.Lemma, nil)) == 0 {
			sel = defaultSelection(items)
		}
		st.session.SetSelection(items, sel)
		st.mu.Unlock()
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(ctx context.Context, user models.User) error {
	// Private chat IDs are the user's Telegram ID
	msg := tgbotapi.NewMessage(user.TelegramID,
		"⏰ Time for some conjugation practice! Send /start to pick up where you left off.")
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to user %d: %w", user.TelegramID, err)
	}
	return nil
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.config.AdminUserIDs[userID]
}

// chat returns the state of chatID, loading the user's saved selection on first contact
func (b *Bot) chat(ctx context.Context, chatID int64, from *tgbotapi.User) (*chatState, error) {
	b.mu.Lock()
	if st, ok := b.chats[chatID]; ok && !st.failed.Load() {
		b.mu.Unlock()
		return st, nil
	}
	st := &chatState{session: practice.NewSession()}
	// Held until the selection is loaded so concurrent updates of this chat wait for it
	st.mu.Lock()
	defer st.mu.Unlock()
	b.chats[chatID] = st
	b.mu.Unlock()

	items := b.Items()
	sel := defaultSelection(items)
	if b.repos.Users != nil && from != nil {
		user, err := b.repos.Users.GetOrCreate(ctx, from.ID, from.UserName)
		if err != nil {
			st.failed.Store(true)
			b.mu.Lock()
			if b.chats[chatID] == st {
				delete(b.chats, chatID)
			}
			b.mu.Unlock()
			return nil, err
		}
		st.userID = user.ID
		if saved := savedSelection(user); len(practice.Filter(items, saved.Lemma, nil)) > 0 {
			sel = saved
		}
	}

	st.session.SetSelection(items, sel)
	return st, nil
}

// lockChat returns the state of chatID with its mutex held. Updates that were
// waiting on a state whose loading failed fetch a fresh one.
func (b *Bot) lockChat(ctx context.Context, chatID int64, from *tgbotapi.User) (*chatState, error) {
	for {
		st, err := b.chat(ctx, chatID, from)
		if err != nil {
			return nil, err
		}
		st.mu.Lock()
		if !st.failed.Load() {
			return st, nil
		}
		st.mu.Unlock()
	}
}

func (b *Bot) saveSelection(ctx context.Context, st *chatState) {
	if b.repos.Users == nil || st.userID == 0 {
		return
	}
	sel := st.session.Selection()
	if err := b.repos.Users.UpdateSelection(ctx, st.userID, sel.Lemma, strings.Join(sel.Tenses, ",")); err != nil {
		log.Printf("Error saving selection for user %d: %v", st.userID, err)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func defaultSelection(items []models.Item) practice.Selection {
	sel := practice.Selection{Tenses: []string{practice.AllTenses}}
	if lemmas := practice.Lemmas(items); len(lemmas) > 0 {
		sel.Lemma = lemmas[0]
	}
	return sel
}

func savedSelection(user *models.User) practice.Selection {
	sel := practice.Selection{Lemma: user.Lemma}
	for _, t := range strings.Split(user.Tenses, ",") {
		if t = strings.TrimSpace(t); t != "" {
			sel.Tenses = append(sel.Tenses, t)
		}
	}
	if len(sel.Tenses) == 0 {
		sel.Tenses = []string{practice.AllTenses}
	}
	return sel
}
