package notify

import (
	"fmt"
	"log"

	"helpdesk/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier posts complaint events into a fixed operations chat.
type TelegramNotifier struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
}

// NewTelegramNotifier authorizes the bot once at startup.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: Notifier authorized on account %s", bot.Self.UserName)

	return &TelegramNotifier{BotAPI: bot, ChatID: chatID}, nil
}

func (n *TelegramNotifier) ComplaintFiled(complaint *models.Complaint) {
	n.send(fmt.Sprintf("New complaint #%d filed against %s by %s",
		complaint.ID, complaint.TeacherName, complaint.StudentEmail))
}

func (n *TelegramNotifier) ComplaintResolved(complaint *models.Complaint) {
	n.send(fmt.Sprintf("Complaint #%d against %s is now %s",
		complaint.ID, complaint.TeacherName, complaint.Status))
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to deliver notification: %v", err)
	}
}
