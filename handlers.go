package main

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.cfg.AdminID
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil || !msg.Chat.IsPrivate() {
		return
	}
	userID := msg.From.ID
	slog.Debug("message received", "from", userID, "chat", msg.Chat.ID)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(msg, strings.TrimSpace(msg.CommandArguments()))
		case "admin":
			b.handleAdminPanel(msg)
		case "finish_package":
			b.handleFinishPackage(msg)
		}
		return
	}

	if b.isAdmin(userID) {
		if msg.Video != nil || msg.Photo != nil || msg.Document != nil {
			b.handleAdminMedia(msg)
			return
		}
		if msg.Text != "" && b.handleDemoCaption(msg) {
			return
		}
	}

	// Plain text from anyone else goes down the same path as
	// /start <code>, so pasted codes work without the deep link.
	if text := strings.TrimSpace(msg.Text); text != "" {
		b.handleStart(msg, text)
	}
}

// handleStart registers the user, applies the membership gate and then
// either delivers the requested code or greets.
func (b *Bot) handleStart(msg *tgbotapi.Message, code string) {
	userID := msg.From.ID
	b.cache.AddUser(userID)

	if !b.isMember(userID) {
		if code != "" {
			b.pending.Set(userID, code)
		}
		reply := tgbotapi.NewMessage(msg.Chat.ID, membershipRequiredText(b.cfg.Channels))
		reply.ReplyMarkup = membershipKeyboard(b.cfg.Channels)
		b.send(reply)
		return
	}

	if code != "" {
		b.deliverContent(msg.Chat.ID, code)
	} else {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, welcomeText))
	}
}

func (b *Bot) handleAdminPanel(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Admins only."))
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID,
		"Admin panel:\n\n"+
			"• Upload video: store a single video\n"+
			"• Upload package: bundle several videos/photos\n"+
			"• Upload demo: video with a custom caption message\n"+
			"• Stats: bot statistics")
	reply.ReplyMarkup = adminPanelKeyboard()
	b.send(reply)
}

func (b *Bot) handleFinishPackage(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Admins only."))
		return
	}

	buf, collecting, ok := b.sessions.FinishPackage(msg.From.ID)
	if !collecting {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Nothing to finish."))
		return
	}
	if !ok {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "No media added yet."))
		return
	}

	code := generateCode()
	packages := b.cache.Packages()
	packages[code] = buf
	b.cache.PutPackages(packages)

	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("Package with %d media saved!\nLink: %s", len(buf), b.shareLink(code))))
}

// handleAdminMedia feeds a media message into the upload state machine and
// performs whatever side effect it reports.
func (b *Bot) handleAdminMedia(msg *tgbotapi.Message) {
	entry, ok := resolveMedia(msg)
	if !ok {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Please send a video or a photo."))
		return
	}

	action, count := b.sessions.HandleMedia(msg.From.ID, entry)
	switch action {
	case actionStoreSingle:
		code := generateCode()
		videos := b.cache.Videos()
		videos[code] = entry.FileID
		b.cache.PutVideos(videos)
		b.send(tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("Video saved!\nLink: %s", b.shareLink(code))))

	case actionBuffered:
		b.send(tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("%s %d added. Send /finish_package when done.", kindLabel(entry.Kind), count)))

	case actionStoreDemo:
		code := generateCode()
		videos := b.cache.Videos()
		videos[code] = entry.FileID
		b.cache.PutVideos(videos)
		b.sessions.SetPendingCode(msg.From.ID, code)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Video saved! Now send the demo message:"))
	}
}

// handleDemoCaption finishes a demo upload if one is waiting for its
// caption. Returns false when no demo is pending so the text can be routed
// elsewhere.
func (b *Bot) handleDemoCaption(msg *tgbotapi.Message) bool {
	code, ok := b.sessions.TakeCaptionCode(msg.From.ID)
	if !ok {
		return false
	}

	demos := b.cache.Demos()
	demos[code] = msg.Text
	b.cache.PutDemos(demos)

	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("Demo saved!\n\nLink: %s\nDemo message: %s", b.shareLink(code), msg.Text)))
	return true
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.From == nil {
		return
	}
	chatID := query.Message.Chat.ID
	userID := query.From.ID

	if query.Data == cbCheckMember {
		b.api.Request(tgbotapi.NewCallback(query.ID, "Checking membership..."))
		b.handleMembershipRecheck(chatID, userID, query.Message.MessageID, query.ID)
		return
	}

	b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	if !b.isAdmin(userID) {
		b.send(tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, "Admins only."))
		return
	}

	switch query.Data {
	case cbUploadSingle:
		b.sessions.BeginSingle(userID)
		b.send(tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, "Send the video:"))
	case cbUploadPackage:
		b.sessions.BeginPackage(userID)
		b.send(tgbotapi.NewEditMessageText(chatID, query.Message.MessageID,
			"Send videos and photos one by one, then /finish_package."))
	case cbUploadDemo:
		b.sessions.BeginDemo(userID)
		b.send(tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, "Send the demo video:"))
	case cbShowStats:
		users, videos, packages, demos := b.cache.Stats()
		b.send(tgbotapi.NewEditMessageText(chatID, query.Message.MessageID,
			fmt.Sprintf("Stats:\nUsers: %d\nVideos: %d\nPackages: %d\nDemos: %d",
				users, videos, packages, demos)))
	}
}

// handleMembershipRecheck resumes the originally requested delivery after a
// successful recheck. The pending entry is popped before acting, so a
// double click cannot redeliver.
func (b *Bot) handleMembershipRecheck(chatID, userID int64, messageID int, queryID string) {
	if !b.isMember(userID) {
		b.api.Request(tgbotapi.NewCallbackWithAlert(queryID, "You have not joined all channels yet!"))
		return
	}

	b.send(tgbotapi.NewEditMessageText(chatID, messageID, "Membership confirmed, welcome!"))

	if code, ok := b.pending.Take(userID); ok {
		b.deliverContent(chatID, code)
	} else {
		b.send(tgbotapi.NewMessage(chatID, welcomeText))
	}
}

// resolveMedia extracts the file reference and kind from an admin media
// message. Documents count only when their MIME type marks them as video
// or image.
func resolveMedia(msg *tgbotapi.Message) (MediaEntry, bool) {
	switch {
	case msg.Video != nil:
		return MediaEntry{FileID: msg.Video.FileID, Kind: KindVideo}, true
	case len(msg.Photo) > 0:
		// Last size is the largest.
		return MediaEntry{FileID: msg.Photo[len(msg.Photo)-1].FileID, Kind: KindPhoto}, true
	case msg.Document != nil:
		switch {
		case strings.HasPrefix(msg.Document.MimeType, "video/"):
			return MediaEntry{FileID: msg.Document.FileID, Kind: KindVideo}, true
		case strings.HasPrefix(msg.Document.MimeType, "image/"):
			return MediaEntry{FileID: msg.Document.FileID, Kind: KindPhoto}, true
		}
	}
	return MediaEntry{}, false
}

func kindLabel(kind string) string {
	if kind == KindPhoto {
		return "Photo"
	}
	return "Video"
}
