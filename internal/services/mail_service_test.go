package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogpress/internal/config"
)

func TestNewMailServicePicksProvider(t *testing.T) {
	logger := quietLogger()

	_, ok := NewMailService(config.MailConfig{ResendAPIKey: "re_test"}, logger).(*resendMailService)
	assert.True(t, ok)

	_, ok = NewMailService(config.MailConfig{SMTP: config.SMTPConfig{Host: "smtp.example.com"}}, logger).(*smtpMailService)
	assert.True(t, ok)

	_, ok = NewMailService(config.MailConfig{}, logger).(*logMailService)
	assert.True(t, ok)
}

func TestLogMailServiceReturnsMessageID(t *testing.T) {
	id, err := NewMailService(config.MailConfig{}, quietLogger()).SendContactNotification(context.Background(), "inbox@example.com", validContact())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "log-"))
}

func TestSMTPMessageIsMultipart(t *testing.T) {
	svc := &smtpMailService{
		cfg: config.MailConfig{FromEmail: "noreply@example.com", FromName: "Blög", AppName: "Blogpress"},
		tpl: newContactTemplates(),
	}
	msg := validContact()
	msg.Message = "<script>alert(1)</script> hello"

	html, text, err := svc.tpl.render(contactEmailData{ContactEmail: msg, AppName: "Blogpress", Year: 2024})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, text, "<script>alert(1)</script> hello")

	raw := string(svc.buildMessage("inbox@example.com", "<id@example.com>", contactSubject("Blogpress", msg), msg.Email, html, text))
	assert.Contains(t, raw, "From: =?UTF-8?b?")
	assert.Contains(t, raw, "Reply-To: grace@example.com\r\n")
	assert.Contains(t, raw, "Subject: [Blogpress contact] Guest post idea\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative;")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
}
