// Package sms is the outbound text-message collaborator. The core only
// hands off (number, code) pairs; delivery is someone else's problem.
package sms

import "log/slog"

type Sender interface {
	SendVerificationCode(phoneNumber, code string) error
}

// LogSender records the dispatch without sending anything. Used in
// development and as the default until a real gateway is configured.
// It never logs the code itself.
type LogSender struct{}

func (LogSender) SendVerificationCode(phoneNumber, _ string) error {
	slog.Info("dispatching verification text", "phone_number", phoneNumber)
	return nil
}
