// Package notify delivers account notifications to users.
package notify

import (
	"context"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the application log instead of
// delivering them. Confirmation codes are never written.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDeletionCode(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.Info("Notifier: deletion code issued",
		"email", email,
		"code_length", len(code))
	return nil
}

func (n *LogNotifier) SendDeletionConfirmation(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.Info("Notifier: account deletion confirmed", "email", email)
	return nil
}
