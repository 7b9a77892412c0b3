package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/seeubot/request/internal/admincontext"
	"github.com/seeubot/request/internal/config"
	"github.com/seeubot/request/internal/ledger"
	"github.com/seeubot/request/internal/membership"
)

// API is the slice of the Telegram client the bot sends through.
// *tgbotapi.BotAPI satisfies it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

type Bot struct {
	api      API
	ledger   *ledger.Ledger
	gate     *membership.Gate
	contexts *admincontext.Store

	adminIDs            map[int64]bool
	adminChannelID      int64
	requestsChannelID   int64
	requiredChannelName string
}

func New(
	api API,
	cfg *config.Config,
	requestLedger *ledger.Ledger,
	gate *membership.Gate,
	contexts *admincontext.Store,
) *Bot {
	adminIDs := make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminIDs[id] = true
	}

	return &Bot{
		api:                 api,
		ledger:              requestLedger,
		gate:                gate,
		contexts:            contexts,
		adminIDs:            adminIDs,
		adminChannelID:      cfg.AdminChannelID,
		requestsChannelID:   cfg.RequestsChannelID,
		requiredChannelName: cfg.RequiredChannelUsername,
	}
}

func (b *Bot) Start(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		b.handleUpdate(update)
	}
}

// handleUpdate isolates one update: a failure while processing it is
// logged and must not take down the loop.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Bot.handleUpdate: recovered from panic: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)

	case update.MyChatMember != nil:
		b.handleMembershipChange(update.MyChatMember)

	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if b.isAdmin(msg.From.ID) && b.handleAdminArtifact(msg) {
		return
	}

	switch {
	case len(msg.Photo) > 0:
		b.handlePhoto(msg)
	case msg.Text != "":
		b.handleText(msg)
	}
}

func (b *Bot) handleMembershipChange(change *tgbotapi.ChatMemberUpdated) {
	if change.NewChatMember.User == nil {
		return
	}

	userID := change.NewChatMember.User.ID
	b.gate.ApplyUpdate(userID, change.NewChatMember.Status)
	log.Printf("Bot.handleMembershipChange: user %d is now %s", userID, change.NewChatMember.Status)
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminIDs[userID]
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Bot.send: %v", err)
	}
}
