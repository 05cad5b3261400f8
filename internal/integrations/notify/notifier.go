package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// sender часть *sendgrid.Client, которой пользуется уведомитель
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Config настройки отправителя
type Config struct {
	APIKey       string
	FromEmail    string
	FromName     string
	SupportInbox string
}

// SupportNotifier отправляет письмо в поддержку о новом обращении
type SupportNotifier struct {
	client       sender
	from         *mail.Email
	supportInbox string
	log          Logger
}

// NewSupportNotifier создает уведомитель на SendGrid
func NewSupportNotifier(cfg Config, log Logger) *SupportNotifier {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "HomeService Booking"
	}

	return &SupportNotifier{
		client:       sendgrid.NewSendClient(cfg.APIKey),
		from:         mail.NewEmail(fromName, cfg.FromEmail),
		supportInbox: cfg.SupportInbox,
		log:          log,
	}
}

// NotifySupportTicket уведомляет поддержку о новом обращении
// Ответ клиенту уходит на ContactEmail через Reply-To
func (n *SupportNotifier) NotifySupportTicket(ctx context.Context, ticket *domain.SupportTicket) error {
	subject := fmt.Sprintf("Support request #%d for job #%d", ticket.ID, ticket.JobID)
	body := fmt.Sprintf("User: %s\nContact: %s\nJob: %d\n\n%s",
		ticket.UserID, ticket.ContactEmail, ticket.JobID, ticket.EnquiryText)

	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail("Support", n.supportInbox), body, body)
	message.SetReplyTo(mail.NewEmail("", ticket.ContactEmail))

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: ticket=%d: %v", ErrSend, ticket.ID, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: ticket=%d: status %d: %s", ErrSend, ticket.ID, resp.StatusCode, resp.Body)
	}

	n.log.Info("Notify: support ticket id=%d sent to %s, status=%d", ticket.ID, n.supportInbox, resp.StatusCode)
	return nil
}

// NopNotifier используется, когда уведомления отключены
type NopNotifier struct{}

// NotifySupportTicket ничего не делает
func (NopNotifier) NotifySupportTicket(context.Context, *domain.SupportTicket) error { return nil }
