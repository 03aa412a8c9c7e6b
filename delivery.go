package main

import (
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = "Hi! Use a content link to receive a video."

// packagePace is the gap between consecutive package sends, to stay under
// the platform's rate limits. Not needed for correctness.
const packagePace = 300 * time.Millisecond

// isMember runs the membership gate against Telegram.
func (b *Bot) isMember(userID int64) bool {
	return checkMembership(b.cfg.Channels, userID, b.cfg.MembershipFailPolicy,
		func(channel string, uid int64) (string, error) {
			member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
				ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
					SuperGroupUsername: channel,
					UserID:             uid,
				},
			})
			if err != nil {
				return "", err
			}
			return member.Status, nil
		})
}

// shareLink formats the deep link handed to the admin after an upload.
func (b *Bot) shareLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", b.api.Self.UserName, code)
}

// deliverContent resolves a code and sends the content it maps to. Every
// sent message gets its own deletion timer.
func (b *Bot) deliverContent(chatID int64, code string) {
	if fileID, ok := b.cache.Videos()[code]; ok {
		b.deliverSingle(chatID, code, fileID)
		return
	}
	if items, ok := b.cache.Packages()[code]; ok {
		b.deliverPackage(chatID, items)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "Invalid or expired code."))
}

func (b *Bot) deliverSingle(chatID int64, code, fileID string) {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
	video.Caption = fmt.Sprintf(
		"This video is visible for %d seconds only! Save it to your Saved Messages.",
		int(b.cfg.DeleteDelay.Seconds()))
	sent, err := b.api.Send(video)
	if err != nil {
		slog.Error("single send failed", "code", code, "err", err)
		return
	}
	b.scheduler.ScheduleDelete(chatID, sent.MessageID)

	// The demo caption, if any, stays after the video is gone.
	if demo, ok := b.cache.Demos()[code]; ok {
		b.send(tgbotapi.NewMessage(chatID, demo))
	}
}

// deliverPackage sends the package items in order. A failed item is skipped
// and the loop continues; the closing message reports how many actually
// went out.
func (b *Bot) deliverPackage(chatID int64, items []MediaEntry) {
	pace := time.NewTicker(packagePace)
	defer pace.Stop()

	sentCount := 0
	for i, entry := range items {
		if i > 0 {
			<-pace.C
		}

		var msg tgbotapi.Chattable
		if entry.Kind == KindPhoto {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(entry.FileID))
			photo.Caption = fmt.Sprintf("Photo %d of %d", i+1, len(items))
			msg = photo
		} else {
			video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(entry.FileID))
			video.Caption = fmt.Sprintf("Video %d of %d", i+1, len(items))
			msg = video
		}

		sent, err := b.api.Send(msg)
		if err != nil {
			slog.Warn("package item send failed, skipping", "item", i, "err", err)
			continue
		}
		sentCount++
		b.scheduler.ScheduleDelete(chatID, sent.MessageID)
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"%d media sent. They will be deleted automatically in %d seconds — save them to your Saved Messages.",
		sentCount, int(b.cfg.DeleteDelay.Seconds()))))
}
