package logger

import (
	"strconv"

	"github.com/go-telegram/bot/models"
)

// TgLogger prefixes every line with the Telegram user it concerns.
type TgLogger struct {
	userID int64
}

func ForUpdate(u *models.Update) TgLogger {
	switch {
	case u == nil:
		return TgLogger{}
	case u.Message != nil && u.Message.From != nil:
		return TgLogger{userID: u.Message.From.ID}
	case u.CallbackQuery != nil:
		return TgLogger{userID: u.CallbackQuery.From.ID}
	}
	return TgLogger{}
}

func ForUser(userID int64) TgLogger {
	return TgLogger{userID: userID}
}

func (l TgLogger) prefix() string {
	if l.userID == 0 {
		return ""
	}
	return "[" + strconv.FormatInt(l.userID, 10) + "] "
}

func (l TgLogger) Infof(format string, args ...any) {
	Infof(l.prefix()+format, args...)
}

func (l TgLogger) Debugf(format string, args ...any) {
	Debugf(l.prefix()+format, args...)
}

func (l TgLogger) Warnf(format string, args ...any) {
	Warnf(l.prefix()+format, args...)
}

func (l TgLogger) Errorf(format string, args ...any) {
	Errorf(l.prefix()+format, args...)
}
