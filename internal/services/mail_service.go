package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"blogpress/internal/config"
	"blogpress/pkg/logging"
)

type IMailService interface {
	// SendContactNotification delivers a contact form submission to the
	// inbox and returns the provider message id.
	SendContactNotification(ctx context.Context, to string, msg ContactEmail) (string, error)
}

// NewMailService picks Resend when an API key is set, SMTP when a host is
// set, and otherwise only logs what would have been sent.
func NewMailService(cfg config.MailConfig, logger logging.Logger) IMailService {
	switch {
	case cfg.ResendAPIKey != "":
		return &resendMailService{cfg: cfg, client: resend.NewClient(cfg.ResendAPIKey), tpl: newContactTemplates()}
	case cfg.SMTP.Host != "":
		return &smtpMailService{cfg: cfg, tpl: newContactTemplates()}
	default:
		logger.Warn("no mail provider configured, contact emails will only be logged")
		return &logMailService{logger: logger}
	}
}

type contactTemplates struct {
	html *template.Template
	text *texttemplate.Template
}

type contactEmailData struct {
	ContactEmail
	AppName string
	Year    int
}

func newContactTemplates() contactTemplates {
	return contactTemplates{
		html: template.Must(template.New("contactHTML").Parse(contactHTMLTemplate)),
		text: texttemplate.Must(texttemplate.New("contactText").Parse(contactTextTemplate)),
	}
}

const contactHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Subject}}</title>
  <style>
    body { margin: 0; padding: 24px; background: #f8fafc; color: #0f172a; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px; }
    .meta { color: #64748b; font-size: 14px; margin: 0 0 4px; }
    .message { white-space: pre-wrap; line-height: 1.6; margin-top: 24px; }
    .footer { color: #94a3b8; font-size: 12px; margin-top: 32px; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <h1>{{.Subject}}</h1>
    <p class="meta">From: {{.Name}} &lt;{{.Email}}&gt;</p>
    <div class="message">{{.Message}}</div>
    <div class="footer">© {{.Year}} {{.AppName}} contact form</div>
  </div>
</body>
</html>`

const contactTextTemplate = `New contact form message

From: {{.Name}} <{{.Email}}>
Subject: {{.Subject}}

{{.Message}}
`

func (t contactTemplates) render(data contactEmailData) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := t.html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := t.text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func contactSubject(appName string, msg ContactEmail) string {
	return fmt.Sprintf("[%s contact] %s", appName, msg.Subject)
}

func formatFromHeader(name, addr string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), addr)
}

// ------------------- Resend -------------------

type resendMailService struct {
	cfg    config.MailConfig
	client *resend.Client
	tpl    contactTemplates
}

func (s *resendMailService) SendContactNotification(ctx context.Context, to string, msg ContactEmail) (string, error) {
	html, text, err := s.tpl.render(contactEmailData{ContactEmail: msg, AppName: s.cfg.AppName, Year: time.Now().Year()})
	if err != nil {
		return "", err
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    formatFromHeader(s.cfg.FromName, s.cfg.FromEmail),
		To:      []string{to},
		ReplyTo: msg.Email,
		Subject: contactSubject(s.cfg.AppName, msg),
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}

// ------------------- SMTP -------------------

type smtpMailService struct {
	cfg config.MailConfig
	tpl contactTemplates
}

func (s *smtpMailService) SendContactNotification(ctx context.Context, to string, msg ContactEmail) (string, error) {
	html, text, err := s.tpl.render(contactEmailData{ContactEmail: msg, AppName: s.cfg.AppName, Year: time.Now().Year()})
	if err != nil {
		return "", err
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.SMTP.Host)
	body := s.buildMessage(to, messageID, contactSubject(s.cfg.AppName, msg), msg.Email, html, text)
	if err := s.send(ctx, to, body); err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}
	return messageID, nil
}

func (s *smtpMailService) buildMessage(to, messageID, subject, replyTo, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", formatFromHeader(s.cfg.FromName, s.cfg.FromEmail))
	write("To: %s\r\n", to)
	if replyTo != "" {
		write("Reply-To: %s\r\n", replyTo)
	}
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("Message-ID: %s\r\n", messageID)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(ctx context.Context, to string, body []byte) error {
	cfg := s.cfg.SMTP
	addr := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))
	tlsCfg := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var (
		conn net.Conn
		err  error
	)
	if cfg.UseSSL {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.FromEmail); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

// ------------------- Log only -------------------

type logMailService struct {
	logger logging.Logger
}

func (s *logMailService) SendContactNotification(_ context.Context, to string, msg ContactEmail) (string, error) {
	id := "log-" + uuid.NewString()
	s.logger.WithFields(logging.Fields{
		"message_id": id,
		"to":         logging.RedactEmail(to),
		"from":       logging.RedactEmail(msg.Email),
		"name":       msg.Name,
		"subject":    msg.Subject,
	}).Info("contact email (log only)")
	return id, nil
}
