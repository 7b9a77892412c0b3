package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/AlekSi/pointer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/seeubot/request/internal/admincontext"
	"github.com/seeubot/request/internal/ledger"
)

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.Data == "verify_membership" {
		b.handleVerifyCallback(query)
		return
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Bot.handleCallback: answer: %v", err)
	}

	if query.Message == nil {
		return
	}

	// Non-admins pressing triage buttons get no explanation, only the
	// buttons taken away.
	if !b.isAdmin(query.From.ID) {
		b.send(tgbotapi.NewEditMessageReplyMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
		))
		return
	}

	parts := strings.SplitN(query.Data, "_", 2)
	if len(parts) != 2 {
		return
	}
	action, requestID := parts[0], parts[1]

	if _, err := b.ledger.Get(requestID); err != nil {
		b.editCaption(query, query.Message.Caption+"\n\n⚠️ Error: Request not found in system", nil)
		return
	}

	switch action {
	case "approve":
		b.handleApprove(query, requestID)
	case "reject":
		b.handleReject(query, requestID)
	case "sendfile":
		b.contexts.Expect(query.From.ID, admincontext.AwaitingFile, requestID)
		b.editCaption(query, fmt.Sprintf(
			"%s\n\n📤 Waiting for file from %s...\nPlease forward or upload the file as a reply to this message.",
			query.Message.Caption, mention(query.From),
		), nil)
		b.send(tgbotapi.NewMessage(query.From.ID, fmt.Sprintf(
			"Please send me the file for request ID: %s.\nI'll forward it to the user who requested it.",
			requestID,
		)))
	case "postchannel":
		b.contexts.Expect(query.From.ID, admincontext.AwaitingChannelPost, requestID)
		b.editCaption(query, fmt.Sprintf(
			"%s\n\n📤 Waiting for file from %s to post to channel...",
			query.Message.Caption, mention(query.From),
		), nil)
		b.send(tgbotapi.NewMessage(query.From.ID, fmt.Sprintf(
			"Please send me the file for request ID: %s to post to the channel.\nYou can also include a caption for the channel post.",
			requestID,
		)))
	case "sendreason":
		b.contexts.Expect(query.From.ID, admincontext.AwaitingReason, requestID)
		b.editCaption(query, fmt.Sprintf(
			"%s\n\n📝 Waiting for rejection reason from %s...",
			query.Message.Caption, mention(query.From),
		), nil)
		b.send(tgbotapi.NewMessage(query.From.ID, fmt.Sprintf(
			"Please send me the rejection reason for request ID: %s.\nI'll forward it to the user who made the request.",
			requestID,
		)))
	}
}

func (b *Bot) handleVerifyCallback(query *tgbotapi.CallbackQuery) {
	if !b.gate.IsMember(query.From.ID, true) {
		if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(query.ID, "You need to join the channel first!")); err != nil {
			log.Printf("Bot.handleVerifyCallback: answer: %v", err)
		}
		return
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Bot.handleVerifyCallback: answer: %v", err)
	}

	if query.Message == nil {
		return
	}

	b.send(tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID,
		query.Message.MessageID,
		"✅ Your membership has been verified! You can now use the bot.\n\n"+
			"Send me a screenshot or image of the video/file you're looking for.",
		channelKeyboard(b.requiredChannelName),
	))
}

func (b *Bot) handleApprove(query *tgbotapi.CallbackQuery, requestID string) {
	req, err := b.ledger.Transition(requestID, ledger.ActionApprove, nil)
	if err != nil {
		b.reportTransitionError(query, requestID, err)
		return
	}

	markup := approvedKeyboard(requestID)
	b.editCaption(query, fmt.Sprintf("%s\n\n✅ Approved by %s", query.Message.Caption, mention(query.From)), &markup)

	b.reply(req.RequesterID, fmt.Sprintf(
		"✅ Good news! Your request (ID: %s) has been approved. "+
			"The admin is preparing your file and will send it soon.",
		requestID,
	))
}

func (b *Bot) handleReject(query *tgbotapi.CallbackQuery, requestID string) {
	req, err := b.ledger.Transition(requestID, ledger.ActionReject, nil)
	if err != nil {
		b.reportTransitionError(query, requestID, err)
		return
	}

	markup := rejectedKeyboard(requestID)
	b.editCaption(query, fmt.Sprintf("%s\n\n❌ Rejected by %s", query.Message.Caption, mention(query.From)), &markup)

	b.reply(req.RequesterID, fmt.Sprintf(
		"❌ Your request (ID: %s) could not be fulfilled. "+
			"An admin may provide more details soon.",
		requestID,
	))
}

// handleAdminArtifact routes an admin's plain message against the
// expectation set by the last button press. A message that does not
// match the expected artifact type leaves the expectation in place and
// is handled as ordinary user traffic.
func (b *Bot) handleAdminArtifact(msg *tgbotapi.Message) bool {
	adminID := msg.From.ID

	exp, ok := b.contexts.Resolve(adminID)
	if !ok {
		return false
	}

	switch exp.Kind {
	case admincontext.AwaitingFile:
		if msg.Document == nil && msg.Video == nil {
			b.contexts.Expect(adminID, exp.Kind, exp.RequestID)
			return false
		}
		b.completeSendFile(msg, exp.RequestID)

	case admincontext.AwaitingChannelPost:
		if msg.Document == nil && msg.Video == nil {
			b.contexts.Expect(adminID, exp.Kind, exp.RequestID)
			return false
		}
		b.completeChannelPost(msg, exp.RequestID)

	case admincontext.AwaitingReason:
		if msg.Text == "" {
			b.contexts.Expect(adminID, exp.Kind, exp.RequestID)
			return false
		}
		b.completeSendReason(msg, exp.RequestID)
	}

	return true
}

func (b *Bot) completeSendFile(msg *tgbotapi.Message, requestID string) {
	req, err := b.ledger.Transition(requestID, ledger.ActionSendFile, nil)
	if err != nil {
		b.reportLedgerError(msg.Chat.ID, requestID, err)
		return
	}

	caption := fmt.Sprintf("📁 Here's the file you requested (ID: %s)!", requestID)
	markup := channelKeyboard(b.requiredChannelName)
	b.send(artifactCopy(req.RequesterID, msg, caption, markup))

	b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ File has been sent to the user for request ID: %s", requestID,
	)))
}

func (b *Bot) completeChannelPost(msg *tgbotapi.Message, requestID string) {
	req, err := b.ledger.Transition(requestID, ledger.ActionPostChannel, nil)
	if err != nil {
		b.reportLedgerError(msg.Chat.ID, requestID, err)
		return
	}

	caption := msg.Caption
	if caption == "" {
		caption = fmt.Sprintf("📁 Requested file (ID: %s)\nRequested by: %s",
			requestID, b.requesterMention(req.RequesterID))
	}

	posted, err := b.api.Send(artifactCopy(b.requestsChannelID, msg, caption, nil))
	if err != nil {
		log.Printf("Bot.completeChannelPost: post to channel: %v", err)
	} else {
		userCaption := fmt.Sprintf("📁 Here's the file you requested (ID: %s)!\nIt's also available in our channel.", requestID)
		if msg.Video != nil {
			userCaption = fmt.Sprintf("🎬 Here's the video you requested (ID: %s)!\nIt's also available in our channel.", requestID)
		}

		postLink := fmt.Sprintf("https://t.me/%s/%d", b.requiredChannelName, posted.MessageID)
		b.send(artifactCopy(req.RequesterID, msg, userCaption, viewInChannelKeyboard(postLink)))
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ File has been posted to the channel and sent to the user for request ID: %s", requestID,
	)))
}

func (b *Bot) completeSendReason(msg *tgbotapi.Message, requestID string) {
	req, err := b.ledger.Transition(requestID, ledger.ActionSendReason, pointer.ToString(msg.Text))
	if err != nil {
		b.reportLedgerError(msg.Chat.ID, requestID, err)
		return
	}

	b.reply(req.RequesterID, fmt.Sprintf(
		"❌ Your request (ID: %s) was rejected.\n\nReason: %s", requestID, msg.Text,
	))

	b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ Rejection reason has been sent to the user for request ID: %s", requestID,
	)))
}

func (b *Bot) requesterMention(requesterID int64) string {
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: requesterID},
	})
	if err != nil || chat.UserName == "" {
		return fmt.Sprintf("User #%d", requesterID)
	}

	return "@" + chat.UserName
}

func (b *Bot) reportTransitionError(query *tgbotapi.CallbackQuery, requestID string, err error) {
	if errors.Is(err, ledger.ErrInvalidTransition) {
		b.send(tgbotapi.NewMessage(query.From.ID, fmt.Sprintf(
			"⚠️ Request %s has already been handled.", requestID,
		)))
		return
	}

	log.Printf("Bot.reportTransitionError: %v", err)
	b.editCaption(query, query.Message.Caption+"\n\n⚠️ Error: Request not found in system", nil)
}

func (b *Bot) reportLedgerError(chatID int64, requestID string, err error) {
	if errors.Is(err, ledger.ErrInvalidTransition) {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"⚠️ Request %s has already been handled.", requestID,
		)))
		return
	}

	log.Printf("Bot.reportLedgerError: %v", err)
	b.send(tgbotapi.NewMessage(chatID, "Error: Request not found in system"))
}

func (b *Bot) editCaption(query *tgbotapi.CallbackQuery, caption string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageCaption(query.Message.Chat.ID, query.Message.MessageID, caption)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	b.send(edit)
}

// artifactCopy re-sends an admin's uploaded document or video to
// another chat by file id. Nothing is downloaded or stored.
func artifactCopy(chatID int64, msg *tgbotapi.Message, caption string, markup interface{}) tgbotapi.Chattable {
	if msg.Video != nil {
		video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(msg.Video.FileID))
		video.Caption = caption
		video.ReplyMarkup = markup
		return video
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(msg.Document.FileID))
	doc.Caption = caption
	doc.ReplyMarkup = markup
	return doc
}
