package gateway

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DiscordGateway mirrors the Telegram gateway over Discord. Tasks are
// planned via the !plan prefix so the bot stays quiet in busy channels.
type DiscordGateway struct {
	session *discordgo.Session
	Planner Planner
	Store   DecisionBrowser
}

func NewDiscordGateway(token string, planner Planner, browser DecisionBrowser) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	dg := &DiscordGateway{
		session: session,
		Planner: planner,
		Store:   browser,
	}

	session.AddHandler(dg.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return dg, nil
}

func (dg *DiscordGateway) Start() error {
	if err := dg.session.Open(); err != nil {
		return err
	}
	log.Println("Discord gateway started. Listening for messages...")
	return nil
}

func (dg *DiscordGateway) Send(chatID string, text string) error {
	_, err := dg.session.ChannelMessageSend(chatID, text)
	return err
}

func (dg *DiscordGateway) Stop() error {
	return dg.session.Close()
}

func (dg *DiscordGateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)

	switch {
	case strings.HasPrefix(content, "!plan"):
		task := strings.TrimSpace(strings.TrimPrefix(content, "!plan"))
		if task == "" {
			s.ChannelMessageSend(m.ChannelID, "Usage: !plan <task description>")
			return
		}
		result, err := dg.Planner.PlanTask(context.Background(), task)
		if err != nil {
			log.Printf("planning failed: %v", err)
			s.ChannelMessageSend(m.ChannelID, "I'm having trouble planning right now...")
			return
		}
		s.ChannelMessageSend(m.ChannelID, formatPlan(result.Steps, result.Reasoning))

	case strings.HasPrefix(content, "!history"):
		filter := strings.TrimSpace(strings.TrimPrefix(content, "!history"))
		records, err := dg.Store.Recent(filter, 0)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, "History lookup failed: "+err.Error())
			return
		}
		if len(records) == 0 {
			s.ChannelMessageSend(m.ChannelID, "No decisions recorded yet.")
			return
		}
		var b strings.Builder
		for _, r := range records {
			b.WriteString("#" + strconv.FormatInt(r.ID, 10) + " " + shortTime(r.Timestamp) + " | " + truncate(r.Task, 35) + "\n" + r.Decision + "\n\n")
		}
		s.ChannelMessageSend(m.ChannelID, strings.TrimSpace(b.String()))

	case strings.HasPrefix(content, "!delete"):
		arg := strings.TrimSpace(strings.TrimPrefix(content, "!delete"))
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, "Usage: !delete <id>")
			return
		}
		if err := dg.Store.Delete(id); err != nil {
			s.ChannelMessageSend(m.ChannelID, "Delete failed: "+err.Error())
			return
		}
		s.ChannelMessageSend(m.ChannelID, "Deleted decision #"+strconv.FormatInt(id, 10)+".")
	}
}
