package main

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data for the admin panel and the membership gate.
const (
	cbUploadSingle  = "upload_video"
	cbUploadPackage = "upload_package"
	cbUploadDemo    = "upload_demo"
	cbShowStats     = "show_stats"
	cbCheckMember   = "check_membership"
)

// adminPanelKeyboard builds the admin panel buttons.
func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Upload video", cbUploadSingle),
			tgbotapi.NewInlineKeyboardButtonData("Upload package", cbUploadPackage),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Upload demo", cbUploadDemo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Stats", cbShowStats),
		),
	)
}

// membershipKeyboard builds one join link per required channel plus the
// recheck button.
func membershipKeyboard(channels []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range channels {
		username := strings.TrimPrefix(ch, "@")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Join "+ch, "https://t.me/"+username),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("I joined, check again", cbCheckMember),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// membershipRequiredText lists the channels the user still has to join.
func membershipRequiredText(channels []string) string {
	var sb strings.Builder
	sb.WriteString("To receive content you first need to join:\n\n")
	for _, ch := range channels {
		sb.WriteString("• " + ch + "\n")
	}
	sb.WriteString("\nThen press the check button below.")
	return sb.String()
}
