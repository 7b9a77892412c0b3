package bot

import (
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = "👋 Welcome to File Finder Bot! Send me a screenshot or image of the video/file you're looking for, " +
	"and I'll forward it to our admins. Once they find it, you'll be notified!"

const helpText = "📖 How to use File Finder Bot:\n\n" +
	"1. Send a clear screenshot/image of the video or file you're looking for\n" +
	"2. Your request will be forwarded to our admin team\n" +
	"3. Wait for notification when your file is ready\n" +
	"4. Check our Requested Videos Channel for all approved content\n\n" +
	"Commands:\n" +
	"/start - Start the bot\n" +
	"/help - Show this help message\n" +
	"/status - Check status of your pending requests\n" +
	"/verify - Verify your channel membership"

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID

	if msg.Command() == "verify" {
		b.handleVerify(msg)
		return
	}

	if !b.gate.IsMember(userID, false) {
		b.sendJoinRequirement(msg.Chat.ID)
		return
	}

	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, welcomeText)
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "status":
		b.handleStatus(msg)
	}
}

func (b *Bot) handleVerify(msg *tgbotapi.Message) {
	if !b.gate.IsMember(msg.From.ID, true) {
		b.sendJoinRequirement(msg.Chat.ID)
		return
	}

	b.reply(msg.Chat.ID, "✅ Your membership has been verified! You can now use the bot.")
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	requests := b.ledger.ListByRequester(msg.From.ID)
	if len(requests) == 0 {
		b.reply(msg.Chat.ID, "You don't have any pending requests.")
		return
	}

	text := "Your pending requests:\n\n"
	for _, req := range requests {
		text += fmt.Sprintf(
			"Request ID: %s\nStatus: %s\nSubmitted: %s\n\n",
			req.ID, req.Status, req.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	b.reply(msg.Chat.ID, text)
}

func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	userID := msg.From.ID

	if !b.gate.IsMember(userID, false) {
		b.sendJoinRequirement(msg.Chat.ID)
		return
	}

	photo := msg.Photo[len(msg.Photo)-1]

	req, err := b.ledger.Create(userID, photo.FileID)
	if err != nil {
		b.reply(msg.Chat.ID, "Something went wrong while submitting your request. Please try again.")
		return
	}

	caption := fmt.Sprintf(
		"New file request from %s\nUser ID: %d\nRequest ID: %s\nTime: %s",
		mention(msg.From), userID, req.ID, time.Now().Format("2006-01-02 15:04:05"),
	)

	forward := tgbotapi.NewPhoto(b.adminChannelID, tgbotapi.FileID(photo.FileID))
	forward.Caption = caption
	forward.ParseMode = tgbotapi.ModeHTML
	forward.ReplyMarkup = triageKeyboard(req.ID)
	b.send(forward)

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Your request has been submitted! You'll be notified when it's processed.\nRequest ID: %s",
		req.ID,
	))
}

func (b *Bot) handleText(msg *tgbotapi.Message) {
	if !b.gate.IsMember(msg.From.ID, false) {
		b.sendJoinRequirement(msg.Chat.ID)
		return
	}

	b.reply(msg.Chat.ID, "Please send a screenshot or image of the video/file you're looking for. "+
		"Text requests are not supported.")
}

// reply sends text with the standard requests-channel button attached.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = channelKeyboard(b.requiredChannelName)
	b.send(msg)
}

func (b *Bot) sendJoinRequirement(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"⚠️ You need to join our channel to use this bot!\n\n"+
			"Please join @%s and then click 'Verify Membership' button.",
		b.requiredChannelName,
	))
	msg.ReplyMarkup = joinKeyboard(b.requiredChannelName)
	b.send(msg)
}

func mention(user *tgbotapi.User) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, user.ID, html.EscapeString(user.FirstName))
}
