package gmail

import (
	"context"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/logger"
)

// LogSender stands in for Gmail when no credentials are configured
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(logger logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success
func (s *LogSender) Send(ctx context.Context, msg *entity.OutboundEmail) error {
	s.logger.Info("Email delivery disabled, notification logged",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}
