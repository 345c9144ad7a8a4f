package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/fransbot/internal/ai"
	"github.com/example/fransbot/internal/excel"
	"github.com/example/fransbot/internal/practice"
	"github.com/example/fransbot/internal/progress"
	"github.com/example/fransbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackVerb  = "verb:"
	callbackTense = "tense:"
)

const helpText = `Bonjour! Fill the blank with the right form of the verb. 🇫🇷

Just type your answer to the sentence shown.

Commands:
/verb - Choose the verb to drill
/tense - Choose the tenses to drill
/hint - Show the expected answer
/explain - Explain the current conjugation
/stats - Show your score and progress
/reset - Reset your score
/notify <on [hour]|off> - Daily practice reminders`

var errUploadTooLarge = errors.New("uploaded file is too large")

const emptySelectionText = "No sentences match this selection. Pick another verb with /verb or other tenses with /tense."

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("Error handling update %d: %v", update.UpdateID, err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	if message.Document != nil {
		return b.handleDocument(ctx, message)
	}

	st, err := b.lockChat(ctx, message.Chat.ID, message.From)
	if err != nil {
		b.sendText(message.Chat.ID, "❌ Something went wrong, please try again later.")
		return err
	}
	defer st.mu.Unlock()

	if message.IsCommand() {
		return b.handleCommand(ctx, st, message)
	}
	return b.handleAnswer(ctx, st, message)
}

// handleCommand dispatches a bot command
func (b *Bot) handleCommand(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(st, message)
	case "help":
		err = b.sendText(message.Chat.ID, helpText)
	case "verb":
		err = b.handleVerbMenu(message.Chat.ID, st)
	case "tense":
		err = b.handleTenseMenu(message.Chat.ID, message.MessageID, st, false)
	case "hint":
		err = b.handleHint(st, message)
	case "explain":
		err = b.handleExplain(ctx, st, message)
	case "reset":
		err = b.handleReset(ctx, st, message)
	case "stats":
		err = b.handleStats(ctx, st, message)
	case "notify":
		err = b.handleNotifyCommand(ctx, st, message)
	case "import":
		err = b.handleImportCommand(st, message)
	default:
		err = b.sendText(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
	return err
}

func (b *Bot) handleStart(st *chatState, message *tgbotapi.Message) error {
	if err := b.sendText(message.Chat.ID, helpText); err != nil {
		return err
	}
	return b.sendCurrent(message.Chat.ID, st)
}

// sendCurrent shows the sentence being drilled, choosing one if needed
func (b *Bot) sendCurrent(chatID int64, st *chatState) error {
	item, ok := b.scheduler.Advance(st.session)
	if !ok {
		return b.sendText(chatID, emptySelectionText)
	}
	return b.sendText(chatID, formatItem(item))
}

func (b *Bot) handleAnswer(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	if st.awaitingUpload {
		return b.sendText(message.Chat.ID, "Please send the sentence list as an .xlsx or .csv document.")
	}
	if strings.TrimSpace(message.Text) == "" {
		return nil
	}

	if _, ok := b.scheduler.Advance(st.session); !ok {
		return b.sendText(message.Chat.ID, emptySelectionText)
	}

	res, _ := b.scheduler.Submit(st.session, message.Text)
	b.archive(ctx, st, models.Attempt{
		SessionID: st.session.ID,
		Item:      res.Item,
		Given:     res.Given,
		Correct:   res.Correct,
		Timestamp: res.Timestamp,
	})

	var text strings.Builder
	if res.Correct {
		text.WriteString("✔️ Correct!\n")
	} else {
		text.WriteString(fmt.Sprintf("✖️ Wrong, the answer is: %s\n", res.Expected))
	}
	totals := st.session.Totals()
	text.WriteString(fmt.Sprintf("Score: %d / %d\n\n", totals.Correct, totals.Total))

	if next, ok := st.session.Current(); ok {
		text.WriteString(formatItem(next))
	} else {
		text.WriteString(emptySelectionText)
	}
	return b.sendText(message.Chat.ID, text.String())
}

// archive stores an attempt. Failures are logged, the drill goes on.
func (b *Bot) archive(ctx context.Context, st *chatState, attempt models.Attempt) {
	if st.userID == 0 || b.repos.Attempts == nil {
		return
	}
	attempt.UserID = st.userID
	if err := b.repos.Attempts.Append(ctx, &attempt); err != nil {
		log.Printf("Error archiving attempt for user %d: %v", st.userID, err)
	}
	if b.repos.Users != nil {
		if err := b.repos.Users.Touch(ctx, st.userID, attempt.Timestamp); err != nil {
			log.Printf("Error updating last activity for user %d: %v", st.userID, err)
		}
	}
}

func (b *Bot) handleHint(st *chatState, message *tgbotapi.Message) error {
	if _, ok := b.scheduler.Advance(st.session); !ok {
		return b.sendText(message.Chat.ID, emptySelectionText)
	}
	hint, _ := b.scheduler.Hint(st.session)
	return b.sendText(message.Chat.ID, fmt.Sprintf("💡 %s", hint))
}

func (b *Bot) handleExplain(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	item, ok := b.scheduler.Advance(st.session)
	if !ok {
		return b.sendText(message.Chat.ID, emptySelectionText)
	}

	explanation, err := b.explainer.Explain(ctx, item)
	if errors.Is(err, ai.ErrDisabled) {
		return b.sendText(message.Chat.ID, "Explanations are not configured on this bot.")
	}
	if err != nil {
		b.sendText(message.Chat.ID, "❌ Could not get an explanation right now, please try again later.")
		return err
	}
	return b.sendText(message.Chat.ID, fmt.Sprintf("📖 %s\n\n%s", formatItem(item), explanation))
}

func (b *Bot) handleReset(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	st.session.Reset()
	if st.userID != 0 && b.repos.Attempts != nil {
		if err := b.repos.Attempts.DeleteByUser(ctx, st.userID); err != nil {
			log.Printf("Error clearing attempts of user %d: %v", st.userID, err)
		}
	}
	return b.sendText(message.Chat.ID, "🔄 Score reset. Score: 0 / 0")
}

func (b *Bot) handleStats(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	totals := st.session.Totals()
	sel := st.session.Selection()

	var text strings.Builder
	text.WriteString("📊 Your statistics\n\n")
	text.WriteString(fmt.Sprintf("Score: %d / %d\n", totals.Correct, totals.Total))
	text.WriteString(fmt.Sprintf("Verb: %s\n", sel.Lemma))
	text.WriteString(fmt.Sprintf("Tenses: %s\n", strings.Join(sel.Tenses, ", ")))
	text.WriteString(fmt.Sprintf("Sentences in selection: %d\n", len(st.session.Active())))

	if hardest := progress.Hardest(st.session, 5); len(hardest) > 0 && hardest[0].Mastery.ErrorCount > 0 {
		text.WriteString("\nHardest sentences:\n")
		for _, h := range hardest {
			if h.Mastery.ErrorCount == 0 {
				break
			}
			text.WriteString(fmt.Sprintf("• %s (%s), errors: %d\n", h.Item.Sentence, h.Item.Answer, h.Mastery.ErrorCount))
		}
	}

	history := st.session.Log()
	if st.userID != 0 && b.repos.Attempts != nil {
		archived, err := b.repos.Attempts.ListByUser(ctx, st.userID)
		if err != nil {
			log.Printf("Error loading attempts of user %d: %v", st.userID, err)
		} else {
			history = archived
		}
	}

	days := progress.Daily(history, nil)
	if len(days) == 0 {
		text.WriteString("\nNo attempts recorded yet.")
	} else {
		text.WriteString("\nProgress per day:\n")
		for _, day := range days {
			text.WriteString(fmt.Sprintf("%s: %.0f%% of %d\n", day.Date.Format("2006-01-02"), day.Accuracy, day.Count))
		}
	}

	return b.sendText(message.Chat.ID, text.String())
}

func (b *Bot) handleNotifyCommand(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	usage := "Please use /notify on [hour] or /notify off"
	args := strings.Fields(message.CommandArguments())
	if len(args) == 0 {
		return b.sendText(message.Chat.ID, usage)
	}
	if st.userID == 0 || b.repos.Users == nil {
		return b.sendText(message.Chat.ID, "Reminders are not available on this bot.")
	}

	enabled := false
	hour := b.config.DefaultNotificationHour
	switch strings.ToLower(args[0]) {
	case "on":
		enabled = true
		if len(args) > 1 {
			h, err := strconv.Atoi(args[1])
			if err != nil || h < b.config.NotificationStartHour || h > b.config.NotificationEndHour {
				return b.sendText(message.Chat.ID, fmt.Sprintf("Please choose an hour between %d and %d.",
					b.config.NotificationStartHour, b.config.NotificationEndHour))
			}
			hour = h
		}
	case "off":
	default:
		return b.sendText(message.Chat.ID, usage)
	}

	if err := b.repos.Users.SetNotifications(ctx, st.userID, enabled, hour); err != nil {
		return err
	}

	if !enabled {
		return b.sendText(message.Chat.ID, "🔕 Reminders disabled")
	}
	return b.sendText(message.Chat.ID, fmt.Sprintf("🔔 Reminders enabled at %02d:00", hour))
}

func (b *Bot) handleImportCommand(st *chatState, message *tgbotapi.Message) error {
	if message.From == nil || !b.isAdmin(message.From.ID) {
		return b.sendText(message.Chat.ID, "This command is only available for administrators.")
	}
	st.awaitingUpload = true
	return b.sendText(message.Chat.ID,
		"📥 Send the sentence list as an .xlsx or .csv document.\n"+
			"Columns: sentence, answer, tense, verb. The first row is a header.")
}

// handleDocument imports an uploaded sentence list. It runs outside the chat lock
// because SetItems refreshes every session, this chat's included.
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	if message.From == nil || !b.isAdmin(message.From.ID) {
		return b.sendText(chatID, "Only administrators can upload sentence lists.")
	}

	st, err := b.lockChat(ctx, chatID, message.From)
	if err != nil {
		return err
	}
	awaiting := st.awaitingUpload
	st.awaitingUpload = false
	st.mu.Unlock()
	if !awaiting {
		return b.sendText(chatID, "Send /import first to upload a sentence list.")
	}

	ext := strings.ToLower(filepath.Ext(message.Document.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		return b.sendText(chatID, "❌ Unsupported file type. Please send an .xlsx or .csv file.")
	}

	result, err := b.download(ctx, message.Document.FileID, ext)
	if errors.Is(err, errUploadTooLarge) {
		return b.sendText(chatID, fmt.Sprintf("❌ The file is larger than %d MB. The current list was kept.", b.maxUpload>>20))
	}
	if errors.Is(err, excel.ErrNoItems) {
		return b.sendText(chatID, "❌ The file contains no valid sentences. The current list was kept.")
	}
	if err != nil {
		b.sendText(chatID, "❌ Could not read the file. The current list was kept.")
		return err
	}

	if b.repos.Items != nil {
		if err := b.repos.Items.ReplaceAll(ctx, result.Items); err != nil {
			b.sendText(chatID, "❌ Could not save the sentences. The current list was kept.")
			return err
		}
	}
	b.SetItems(result.Items)

	text := fmt.Sprintf("✅ Imported %d sentences (%d rows processed, %d skipped).",
		len(result.Items), result.TotalProcessed, result.Skipped)
	for i, e := range result.Errors {
		if i == 5 {
			text += fmt.Sprintf("\n… and %d more", len(result.Errors)-i)
			break
		}
		text += "\n• " + e
	}
	return b.sendText(chatID, text)
}

func (b *Bot) download(ctx context.Context, fileID, ext string) (*excel.ImportResult, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, b.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if int64(len(data)) > b.maxUpload {
		return nil, errUploadTooLarge
	}
	return excel.LoadReader(bytes.NewReader(data), ext, excel.DefaultImportConfig())
}

// HandleCallback handles inline keyboard presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback: message is missing")
	}
	chatID := callback.Message.Chat.ID

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	st, err := b.lockChat(ctx, chatID, callback.From)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	items := b.Items()
	sel := st.session.Selection()
	data := callback.Data

	switch {
	case strings.HasPrefix(data, callbackVerb):
		sel = practice.Selection{
			Lemma:  strings.TrimPrefix(data, callbackVerb),
			Tenses: []string{practice.AllTenses},
		}
		st.session.SetSelection(items, sel)
		b.saveSelection(ctx, st)
		if err := b.sendText(chatID, fmt.Sprintf("Verb: %s", sel.Lemma)); err != nil {
			return err
		}
		return b.sendCurrent(chatID, st)

	case strings.HasPrefix(data, callbackTense):
		sel.Tenses = toggleTense(sel.Tenses, strings.TrimPrefix(data, callbackTense))
		st.session.SetSelection(items, sel)
		b.saveSelection(ctx, st)
		if err := b.handleTenseMenu(chatID, callback.Message.MessageID, st, true); err != nil {
			return err
		}
		return b.sendCurrent(chatID, st)

	default:
		return fmt.Errorf("unknown callback data %q", data)
	}
}

func (b *Bot) handleVerbMenu(chatID int64, st *chatState) error {
	lemmas := practice.Lemmas(b.Items())
	if len(lemmas) == 0 {
		return b.sendText(chatID, "No sentences are loaded yet.")
	}

	current := st.session.Selection().Lemma
	var buttons [][]MenuButton
	var row []MenuButton
	for _, lemma := range lemmas {
		label := lemma
		if strings.EqualFold(lemma, current) {
			label = "✅ " + lemma
		}
		row = append(row, MenuButton{Text: label, CallbackData: callbackVerb + lemma})
		if len(row) == 3 {
			buttons = append(buttons, row)
			row = nil
		}
	}
	if len(row) > 0 {
		buttons = append(buttons, row)
	}

	return b.sendMenu(chatID, 0, "Choose a verb:", buttons, false)
}

func (b *Bot) handleTenseMenu(chatID int64, messageID int, st *chatState, edit bool) error {
	sel := st.session.Selection()
	tenses := practice.Tenses(b.Items(), sel.Lemma)
	if len(tenses) == 0 {
		return b.sendText(chatID, "Choose a verb first with /verb.")
	}

	all := isAll(sel.Tenses)
	selected := make(map[string]bool)
	for _, t := range sel.Tenses {
		selected[t] = true
	}

	allLabel := practice.AllTenses
	if all {
		allLabel = "✅ " + allLabel
	}
	buttons := [][]MenuButton{{{Text: allLabel, CallbackData: callbackTense + practice.AllTenses}}}
	for _, tense := range tenses {
		label := tense
		if !all && selected[tense] {
			label = "✅ " + tense
		}
		buttons = append(buttons, []MenuButton{{Text: label, CallbackData: callbackTense + tense}})
	}

	return b.sendMenu(chatID, messageID, fmt.Sprintf("Tenses for %s:", sel.Lemma), buttons, edit)
}

func (b *Bot) sendMenu(chatID int64, messageID int, text string, buttons [][]MenuButton, edit bool) error {
	keyboard := createKeyboard(buttons)
	if edit {
		msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("failed to edit menu: %w", err)
		}
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return b.sendMessage(msg)
}

// toggleTense flips tense in the selection. Choosing "all tenses", or removing the
// last tense, selects every tense.
func toggleTense(tenses []string, tense string) []string {
	if practice.IsAllTenses(tense) {
		return []string{practice.AllTenses}
	}

	var out []string
	found := false
	for _, t := range tenses {
		if practice.IsAllTenses(t) {
			continue
		}
		if t == tense {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tense)
	}
	if len(out) == 0 {
		return []string{practice.AllTenses}
	}
	return out
}

func isAll(tenses []string) bool {
	if len(tenses) == 0 {
		return true
	}
	for _, t := range tenses {
		if practice.IsAllTenses(t) {
			return true
		}
	}
	return false
}

func formatItem(item models.Item) string {
	return fmt.Sprintf("📝 %s\n(%s, %s)", item.Sentence, item.Lemma, item.Tense)
}
