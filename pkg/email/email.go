package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go-job-portal-backend/config"
)

var ErrNotConfigured = errors.New("email: SMTP is not configured")

// SMTPNotifier implements domain.Notifier over plain SMTP with STARTTLS when offered.
type SMTPNotifier struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	timeout   time.Duration
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		timeout:   15 * time.Second,
	}
}

// IsConfigured checks if the notifier has enough SMTP configuration to send
func (s *SMTPNotifier) IsConfigured() bool {
	return s.host != "" && s.fromEmail != ""
}

func (s *SMTPNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(recipients) == 0 {
		return errors.New("email: no recipients")
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		strings.Join(recipients, ", "),
		subject,
		body,
	))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if s.username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return client.Quit()
}

// LinkEmailData fills the action-link template.
type LinkEmailData struct {
	AppName  string
	Heading  string
	Intro    string
	Action   string
	Link     string
	ValidFor string
}

const linkEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Heading}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background: #0066cc; color: white; text-decoration: none; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Heading}}</h1></div>
        <div class="content">
            <p>{{.Intro}}</p>
            <p><a class="button" href="{{.Link}}">{{.Action}}</a></p>
            <p>This link expires in {{.ValidFor}}.</p>
        </div>
        <div class="footer"><p>{{.AppName}}</p></div>
    </div>
</body>
</html>`

var linkTmpl = template.Must(template.New("link").Parse(linkEmailTemplate))

func RenderLinkEmail(data LinkEmailData) (string, error) {
	var body bytes.Buffer
	if err := linkTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// VerificationEmail returns subject and body for the signup link.
func VerificationEmail(appName, link string, validFor time.Duration) (string, string, error) {
	body, err := RenderLinkEmail(LinkEmailData{
		AppName:  appName,
		Heading:  "Verify your email",
		Intro:    "Thanks for signing up. Confirm your email address to activate your account.",
		Action:   "Verify email",
		Link:     link,
		ValidFor: validFor.String(),
	})
	return appName + ": verify your email", body, err
}

// PasswordResetEmail returns subject and body for the reset link.
func PasswordResetEmail(appName, link string, validFor time.Duration) (string, string, error) {
	body, err := RenderLinkEmail(LinkEmailData{
		AppName:  appName,
		Heading:  "Reset your password",
		Intro:    "We received a request to reset your password. Ignore this email if it was not you.",
		Action:   "Reset password",
		Link:     link,
		ValidFor: validFor.String(),
	})
	return appName + ": reset your password", body, err
}
