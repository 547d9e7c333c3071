package gateway

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramGateway plans tasks sent as plain messages and exposes history
// browsing and deletion as bot commands.
type TelegramGateway struct {
	Bot     *tgbotapi.BotAPI
	Planner Planner
	Store   DecisionBrowser
}

func NewTelegramGateway(token string, planner Planner, browser DecisionBrowser) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:     bot,
		Planner: planner,
		Store:   browser,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		response := tg.dispatch(context.Background(), update.Message.Text)

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, response)
		tg.Bot.Send(msg)
	}
	return nil
}

func (tg *TelegramGateway) dispatch(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	switch {
	case text == "/start" || text == "/help":
		return "Send me a task and I'll plan it.\n/history [filter] shows recent decisions.\n/delete <id> removes one."

	case strings.HasPrefix(text, "/history"):
		filter := strings.TrimSpace(strings.TrimPrefix(text, "/history"))
		records, err := tg.Store.Recent(filter, 0)
		if err != nil {
			return fmt.Sprintf("History lookup failed: %v", err)
		}
		if len(records) == 0 {
			return "No decisions recorded yet."
		}
		var b strings.Builder
		for _, r := range records {
			fmt.Fprintf(&b, "#%d %s | %s\n%s\n\n", r.ID, shortTime(r.Timestamp), truncate(r.Task, 35), r.Decision)
		}
		return strings.TrimSpace(b.String())

	case strings.HasPrefix(text, "/delete"):
		arg := strings.TrimSpace(strings.TrimPrefix(text, "/delete"))
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return "Usage: /delete <id>"
		}
		if err := tg.Store.Delete(id); err != nil {
			return fmt.Sprintf("Delete failed: %v", err)
		}
		return fmt.Sprintf("Deleted decision #%d.", id)

	case text == "":
		return "Send me a task and I'll plan it."

	default:
		result, err := tg.Planner.PlanTask(ctx, text)
		if err != nil {
			log.Printf("planning failed: %v", err)
			return "I'm having trouble planning right now..."
		}
		return formatPlan(result.Steps, result.Reasoning)
	}
}

func formatPlan(steps []string, reasoning string) string {
	var b strings.Builder
	b.WriteString("📋 Execution Plan\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "\nWhy: %s", reasoning)
	return b.String()
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown"
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
