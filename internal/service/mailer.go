package service

import (
	"errors"
	"fmt"
	"time"

	"flowmind/core-api/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail transport. With incomplete SMTP
// credentials it runs in log-only mode: deliveries are logged and
// reported as successful so registration never depends on a mail
// server being reachable.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{
		host:     cfg.MailHost,
		port:     cfg.MailPort,
		sender:   cfg.MailSender,
		password: cfg.MailPassword,
	}

	if !m.Enabled() {
		zap.L().Warn("Mail credentials incomplete, running in log-only mode")
	}

	return m
}

func (m *Mailer) Enabled() bool {
	return m.host != "" && m.sender != "" && m.password != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	if to == "" {
		return errors.New("no recipient address provided")
	}

	if to == m.sender {
		return errors.New("invalid email address")
	}

	if !m.Enabled() {
		zap.L().Info("Skipping mail delivery",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.sender, m.password)

	return d.DialAndSend(msg)
}

// SendVerificationCode delivers the freshly minted code to the
// registered address.
func (m *Mailer) SendVerificationCode(to, code string, ttl time.Duration) error {
	if !m.Enabled() {
		// The code only shows up in logs when nothing can be
		// delivered anyway
		zap.L().Debug("Verification code issued", zap.String("to", to), zap.String("code", code))
	}

	subject := "FlowMind Studio - Email verification code"
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Use the code below to verify your FlowMind Studio account:\n\n"+
			"    %s\n\n"+
			"This code is valid for %d minutes.\n\n"+
			"If you didn't request this you can safely ignore this mail.\n\n"+
			"FlowMind Studio",
		code, int(ttl.Minutes()),
	)

	return m.Send(to, subject, body)
}
