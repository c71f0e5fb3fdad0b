package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers notifications through the Gmail API
type GmailSender struct {
	gmailService *gmail.Service
	logger       logger.Logger
}

// NewGmailSender creates a sender authorized by tokenSource
func NewGmailSender(ctx context.Context, tokenSource oauth2.TokenSource, logger logger.Logger) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}
	return NewGmailSenderWithService(service, logger), nil
}

// NewGmailSenderWithService wraps an already configured Gmail service
func NewGmailSenderWithService(service *gmail.Service, logger logger.Logger) *GmailSender {
	return &GmailSender{
		gmailService: service,
		logger:       logger,
	}
}

// Send posts msg as the authorized user
func (s *GmailSender) Send(ctx context.Context, msg *entity.OutboundEmail) error {
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}

	raw := base64.URLEncoding.EncodeToString(BuildMIME(msg))
	sent, err := s.gmailService.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send gmail message: %w", err)
	}

	s.logger.Debug("Gmail message sent", "messageID", sent.Id, "subject", msg.Subject)
	return nil
}

// BuildMIME renders msg as an RFC 822 message
func BuildMIME(msg *entity.OutboundEmail) []byte {
	contentType := "text/plain"
	if msg.HTML {
		contentType = "text/html"
	}

	var b strings.Builder
	if msg.From != "" {
		fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
