package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/metrics"
)

const emailSignature = "\n\nBest regards,\nThe LawDesk Team"

// NewEmailServiceFromConfig selects the delivery provider.
func NewEmailServiceFromConfig(cfg config.EmailConfig) EmailService {
	switch cfg.Provider {
	case "sendgrid":
		logger.Info("Email delivery via SendGrid", "from", cfg.FromEmail)
		return NewSendGridEmailService(cfg.APIKey, cfg.FromEmail, cfg.FromName)
	case "smtp":
		logger.Info("Email delivery via SMTP", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port, "from", cfg.FromEmail)
		return NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.FromEmail, cfg.FromName)
	default:
		logger.Info("Email delivery disabled; messages are logged")
		return NewLogEmailService()
	}
}

// message is a rendered email ready for delivery.
type message struct {
	template string
	toEmail  string
	toName   string
	subject  string
	text     string
}

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

// NewSendGridEmailService delivers mail through the SendGrid v3 API.
func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return newSendGridEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newSendGridEmailService(client mailSender, fromEmail, fromName string) *sendGridEmailService {
	return &sendGridEmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendJoinRequestReceived(ctx context.Context, ownerEmail, ownerName, requesterName, officeName string) error {
	return s.send(ctx, joinRequestReceivedMessage(ownerEmail, ownerName, requesterName, officeName))
}

func (s *sendGridEmailService) SendJoinRequestDecision(ctx context.Context, email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) error {
	return s.send(ctx, joinRequestDecisionMessage(email, name, officeName, status, role))
}

func (s *sendGridEmailService) SendPendingDigest(ctx context.Context, ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) error {
	return s.send(ctx, pendingDigestMessage(ownerEmail, ownerName, officeName, requests))
}

func (s *sendGridEmailService) send(ctx context.Context, m message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(m.toName, m.toEmail)
	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(m.text), "\n", "<br>") + "</p>"
	msg := mail.NewSingleEmail(from, m.subject, to, m.text, htmlBody)

	logger.ExternalServiceCall("sendgrid", m.template, "to", m.toEmail)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", m.template, err, "to", m.toEmail)
	metrics.EmailsSent.WithLabelValues(m.template, metrics.Result(err)).Inc()

	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", m.template, err)
	}
	return nil
}

// smtpDialer is satisfied by *gomail.Dialer.
type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpEmailService struct {
	dialer    smtpDialer
	fromEmail string
	fromName  string
}

// NewSMTPEmailService delivers mail through an SMTP relay.
func NewSMTPEmailService(host string, port int, username, password, fromEmail, fromName string) EmailService {
	return newSMTPEmailService(gomail.NewDialer(host, port, username, password), fromEmail, fromName)
}

func newSMTPEmailService(dialer smtpDialer, fromEmail, fromName string) *smtpEmailService {
	return &smtpEmailService{
		dialer:    dialer,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *smtpEmailService) SendJoinRequestReceived(ctx context.Context, ownerEmail, ownerName, requesterName, officeName string) error {
	return s.send(ctx, joinRequestReceivedMessage(ownerEmail, ownerName, requesterName, officeName))
}

func (s *smtpEmailService) SendJoinRequestDecision(ctx context.Context, email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) error {
	return s.send(ctx, joinRequestDecisionMessage(email, name, officeName, status, role))
}

func (s *smtpEmailService) SendPendingDigest(ctx context.Context, ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) error {
	return s.send(ctx, pendingDigestMessage(ownerEmail, ownerName, officeName, requests))
}

func (s *smtpEmailService) send(ctx context.Context, m message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.fromEmail, s.fromName)
	msg.SetAddressHeader("To", m.toEmail, m.toName)
	msg.SetHeader("Subject", m.subject)
	msg.SetBody("text/plain", m.text)

	logger.ExternalServiceCall("smtp", m.template, "to", m.toEmail)
	err := s.dialer.DialAndSend(msg)
	logger.ExternalServiceResult("smtp", m.template, err, "to", m.toEmail)
	metrics.EmailsSent.WithLabelValues(m.template, metrics.Result(err)).Inc()

	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

// logEmailService writes emails to the log instead of delivering them.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendJoinRequestReceived(ctx context.Context, ownerEmail, ownerName, requesterName, officeName string) error {
	return logMessage(ctx, joinRequestReceivedMessage(ownerEmail, ownerName, requesterName, officeName))
}

func (logEmailService) SendJoinRequestDecision(ctx context.Context, email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) error {
	return logMessage(ctx, joinRequestDecisionMessage(email, name, officeName, status, role))
}

func (logEmailService) SendPendingDigest(ctx context.Context, ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) error {
	return logMessage(ctx, pendingDigestMessage(ownerEmail, ownerName, officeName, requests))
}

func logMessage(ctx context.Context, m message) error {
	logger.InfoContext(ctx, "Email", "template", m.template, "to", m.toEmail, "subject", m.subject)
	logger.DebugContext(ctx, "Email body", "template", m.template, "body", m.text)
	metrics.EmailsSent.WithLabelValues(m.template, "logged").Inc()
	return nil
}

func joinRequestReceivedMessage(ownerEmail, ownerName, requesterName, officeName string) message {
	return message{
		template: "join_request_received",
		toEmail:  ownerEmail,
		toName:   ownerName,
		subject:  fmt.Sprintf("New join request for %s", officeName),
		text: fmt.Sprintf("Hello %s,\n\n%s has asked to join %s. Review the request in the office settings.",
			ownerName, requesterName, officeName) + emailSignature,
	}
}

func joinRequestDecisionMessage(email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) message {
	m := message{
		template: "join_request_decision",
		toEmail:  email,
		toName:   name,
	}
	if status == domain.JoinRequestStatusApproved {
		m.subject = fmt.Sprintf("Welcome to %s", officeName)
		roleName := string(domain.RoleLawyer)
		if role != nil {
			roleName = string(*role)
		}
		m.text = fmt.Sprintf("Hello %s,\n\nYour request to join %s has been approved. Your role is %s.",
			name, officeName, roleName)
	} else {
		m.subject = fmt.Sprintf("Your request to join %s", officeName)
		m.text = fmt.Sprintf("Hello %s,\n\nYour request to join %s has been rejected.", name, officeName)
	}
	m.text += emailSignature
	return m
}

func pendingDigestMessage(ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%d join request(s) for %s are still waiting for your decision:\n",
		ownerName, len(requests), officeName)
	for _, r := range requests {
		fmt.Fprintf(&b, "\n- %s <%s>, submitted %s", r.UserName, r.UserEmail, r.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	b.WriteString(emailSignature)

	return message{
		template: "pending_digest",
		toEmail:  ownerEmail,
		toName:   ownerName,
		subject:  fmt.Sprintf("%d pending join request(s) for %s", len(requests), officeName),
		text:     b.String(),
	}
}
