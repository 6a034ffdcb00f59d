package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/domain"
)

type fakeSender struct {
	sent []*mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.resp, f.err
}

func TestSendGridEmailService_Decision(t *testing.T) {
	sender := &fakeSender{resp: &rest.Response{StatusCode: 202}}
	svc := newSendGridEmailService(sender, "no-reply@lawdesk.test", "LawDesk")
	role := domain.RoleExpert

	err := svc.SendJoinRequestDecision(context.Background(), "alice@x.com", "Alice", "Law & Co", domain.JoinRequestStatusApproved, &role)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Welcome to Law & Co", msg.Subject)
	assert.Equal(t, "no-reply@lawdesk.test", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	assert.Equal(t, "alice@x.com", msg.Personalizations[0].To[0].Address)
	assert.Contains(t, msg.Content[0].Value, "Your role is expert.")
	assert.Contains(t, msg.Content[1].Value, "Law &amp; Co")
}

func TestSendGridEmailService_Errors(t *testing.T) {
	ctx := context.Background()

	sender := &fakeSender{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
	svc := newSendGridEmailService(sender, "no-reply@lawdesk.test", "LawDesk")
	err := svc.SendJoinRequestReceived(ctx, "olga@x.com", "Olga", "Alice", "Law & Co")
	assert.ErrorContains(t, err, "status 401")

	sender = &fakeSender{err: errors.New("dial tcp: timeout")}
	svc = newSendGridEmailService(sender, "no-reply@lawdesk.test", "LawDesk")
	err = svc.SendJoinRequestReceived(ctx, "olga@x.com", "Olga", "Alice", "Law & Co")
	assert.ErrorContains(t, err, "timeout")
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPEmailService(t *testing.T) {
	dialer := &fakeDialer{}
	svc := newSMTPEmailService(dialer, "no-reply@lawdesk.test", "LawDesk")

	err := svc.SendJoinRequestDecision(context.Background(), "bob@x.com", "Bob", "Law & Co", domain.JoinRequestStatusRejected, nil)
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"Your request to join Law & Co"}, dialer.sent[0].GetHeader("Subject"))

	dialer.err = errors.New("connection refused")
	err = svc.SendJoinRequestReceived(context.Background(), "olga@x.com", "Olga", "Bob", "Law & Co")
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.SendPendingDigest(ctx, "olga@x.com", "Olga", "Law & Co", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, dialer.sent, 2)
}

func TestPendingDigestMessage(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	m := pendingDigestMessage("olga@x.com", "Olga", "Law & Co", []domain.JoinRequest{
		{UserName: "Alice", UserEmail: "alice@x.com", CreatedAt: created},
		{UserName: "Bob", UserEmail: "bob@x.com", CreatedAt: created},
	})

	assert.Equal(t, "2 pending join request(s) for Law & Co", m.subject)
	assert.Contains(t, m.text, "- Alice <alice@x.com>, submitted 2026-03-01 09:30 UTC")
	assert.Contains(t, m.text, "- Bob <bob@x.com>")
}

func TestLogEmailService(t *testing.T) {
	svc := NewLogEmailService()
	assert.NoError(t, svc.SendJoinRequestDecision(context.Background(), "a@x.com", "A", "Office", domain.JoinRequestStatusRejected, nil))
}

func TestNewEmailServiceFromConfig(t *testing.T) {
	assert.IsType(t, &sendGridEmailService{}, NewEmailServiceFromConfig(config.EmailConfig{Provider: "sendgrid", APIKey: "k"}))
	assert.IsType(t, &smtpEmailService{}, NewEmailServiceFromConfig(config.EmailConfig{Provider: "smtp", SMTP: config.SMTPConfig{Host: "localhost", Port: 25}}))
	assert.IsType(t, logEmailService{}, NewEmailServiceFromConfig(config.EmailConfig{Provider: "log"}))
}
