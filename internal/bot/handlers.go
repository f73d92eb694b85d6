package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/omarshaarawi/courtside/internal/service"
)

const helpText = `Available commands:
/players <bc|fc> <name> - Search players
/set <bc|fc> <1-5> <id or name> - Put a player in a slot
/drop <bc|fc> <1-5> - Empty a slot
/roster - Show your roster and budget
/gw [id] - List gameweeks or switch gameweek
/budget <amount> - Set your available budget
/schedule - Day by day coverage for the gameweek
/analyze - Coverage analysis and transaction options
/option <n> - Compare option n with your roster
/clear - Empty your roster`

type Handler struct {
	fantasyService *service.FantasyService
}

func NewHandler(fantasyService *service.FantasyService) *Handler {
	return &Handler{fantasyService: fantasyService}
}

// SessionKey is the session a chat works on.
func SessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.Fields(update.Message.CommandArguments())
	key := SessionKey(update.Message.Chat.ID)
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to Courtside! Build your 10-player roster and check it can field 5 every gameday. Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "players":
		h.handlePlayers(ctx, &msg, args)
	case "set":
		h.handleSet(ctx, &msg, key, args)
	case "drop":
		h.handleDrop(ctx, &msg, key, args)
	case "roster":
		h.reply(&msg, func() (string, error) { return h.fantasyService.GetRoster(ctx, key) })
	case "gw":
		h.handleGameweek(ctx, &msg, key, args)
	case "budget":
		h.handleBudget(ctx, &msg, key, args)
	case "schedule":
		h.reply(&msg, func() (string, error) { return h.fantasyService.GetSchedule(ctx, key) })
	case "analyze":
		h.reply(&msg, func() (string, error) { return h.fantasyService.Analyze(ctx, key) })
	case "option":
		h.handleOption(ctx, &msg, key, args)
	case "clear":
		h.reply(&msg, func() (string, error) { return h.fantasyService.ClearRoster(ctx, key) })
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		msg.Text = service.UserMessage(err)
		return
	}
	msg.Text = text
}

func (h *Handler) handlePlayers(ctx context.Context, msg *tgbotapi.MessageConfig, args []string) {
	if len(args) == 0 {
		msg.Text = "Please provide a name. Usage: /players <bc|fc> <name>"
		return
	}

	var group *roster.Group
	if g, err := roster.ParseGroup(args[0]); err == nil {
		group = &g
		args = args[1:]
	}
	query := strings.Join(args, " ")
	h.reply(msg, func() (string, error) { return h.fantasyService.SearchPlayers(ctx, group, query) })
}

func (h *Handler) handleSet(ctx context.Context, msg *tgbotapi.MessageConfig, key string, args []string) {
	if len(args) < 3 {
		msg.Text = "Usage: /set <bc|fc> <1-5> <player id or name>"
		return
	}
	group, slot, ok := parseSlot(msg, args)
	if !ok {
		return
	}
	ref := strings.Join(args[2:], " ")
	h.reply(msg, func() (string, error) { return h.fantasyService.SetPlayer(ctx, key, group, slot, ref) })
}

func (h *Handler) handleDrop(ctx context.Context, msg *tgbotapi.MessageConfig, key string, args []string) {
	if len(args) != 2 {
		msg.Text = "Usage: /drop <bc|fc> <1-5>"
		return
	}
	group, slot, ok := parseSlot(msg, args)
	if !ok {
		return
	}
	h.reply(msg, func() (string, error) { return h.fantasyService.DropPlayer(ctx, key, group, slot) })
}

func (h *Handler) handleGameweek(ctx context.Context, msg *tgbotapi.MessageConfig, key string, args []string) {
	if len(args) == 0 {
		h.reply(msg, func() (string, error) { return h.fantasyService.GetGameweeks(ctx, key) })
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		msg.Text = "Usage: /gw [gameweek number]"
		return
	}
	h.reply(msg, func() (string, error) { return h.fantasyService.SetGameweek(ctx, key, id) })
}

func (h *Handler) handleBudget(ctx context.Context, msg *tgbotapi.MessageConfig, key string, args []string) {
	if len(args) != 1 {
		msg.Text = "Usage: /budget <amount>"
		return
	}
	h.reply(msg, func() (string, error) { return h.fantasyService.SetBudget(ctx, key, args[0]) })
}

func (h *Handler) handleOption(ctx context.Context, msg *tgbotapi.MessageConfig, key string, args []string) {
	if len(args) != 1 {
		msg.Text = "Usage: /option <n>"
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		msg.Text = "Usage: /option <n>"
		return
	}
	h.reply(msg, func() (string, error) { return h.fantasyService.SelectOption(ctx, key, n) })
}

func parseSlot(msg *tgbotapi.MessageConfig, args []string) (roster.Group, int, bool) {
	group, err := roster.ParseGroup(args[0])
	if err != nil {
		msg.Text = fmt.Sprintf("Unknown group %q. Use bc or fc.", args[0])
		return 0, 0, false
	}
	slot, err := strconv.Atoi(args[1])
	if err != nil {
		msg.Text = fmt.Sprintf("Slot must be a number from 1 to 5, got %q.", args[1])
		return 0, 0, false
	}
	return group, slot, true
}
