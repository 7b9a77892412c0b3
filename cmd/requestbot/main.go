package main

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/seeubot/request/internal/admincontext"
	"github.com/seeubot/request/internal/bot"
	"github.com/seeubot/request/internal/config"
	"github.com/seeubot/request/internal/ledger"
	"github.com/seeubot/request/internal/membership"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating telegram bot: %v", err)
	}

	gate := membership.NewGate(func(userID int64) (string, error) {
		member, err := botAPI.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: cfg.RequiredChannelID,
				UserID: userID,
			},
		})
		if err != nil {
			return "", err
		}

		return member.Status, nil
	}, cfg.MembershipCacheTTL)

	botService := bot.New(
		botAPI,
		cfg,
		ledger.New(),
		gate,
		admincontext.NewStore(),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}

	log.Printf("Bot started as @%s", botAPI.Self.UserName)

	botService.Start(botAPI.GetUpdatesChan(u))
}
