package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/courtside/internal/service"
)

const pollTimeout = 60

var errNoChat = errors.New("chat ID not set")

// menu is the command list Telegram shows next to the input box.
var menu = []tgbotapi.BotCommand{
	{Command: "players", Description: "Search players"},
	{Command: "set", Description: "Put a player in a slot"},
	{Command: "drop", Description: "Empty a slot"},
	{Command: "roster", Description: "Show roster and budget"},
	{Command: "gw", Description: "List or switch gameweeks"},
	{Command: "budget", Description: "Set available budget"},
	{Command: "schedule", Description: "Gameday coverage"},
	{Command: "analyze", Description: "Transaction options"},
	{Command: "option", Description: "Compare an option with your roster"},
	{Command: "clear", Description: "Empty your roster"},
}

type TelegramBot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, fantasyService *service.FantasyService) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		api:     api,
		handler: NewHandler(fantasyService),
		chatID:  chatID,
	}, nil
}

// ChatID is the chat scheduled alerts go to. Zero means none.
func (t *TelegramBot) ChatID() int64 {
	return t.chatID
}

// Start long-polls for commands until ctx is done. Each command is handled
// on its own goroutine.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.api.Self.UserName)
	if _, err := t.api.Request(tgbotapi.NewSetMyCommands(menu...)); err != nil {
		slog.Warn("Failed to register command menu", "error", err)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			go t.handle(ctx, update)
		}
	}
}

func (t *TelegramBot) handle(ctx context.Context, update tgbotapi.Update) {
	reply := t.handler.HandleCommand(ctx, update)
	if _, err := t.api.Send(reply); err != nil {
		slog.Error("Failed to send reply",
			"command", update.Message.Command(),
			"chat_id", update.Message.Chat.ID,
			"error", err,
		)
	}
}

func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return errNoChat
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("sending to chat %d: %w", t.chatID, err)
	}
	return nil
}
