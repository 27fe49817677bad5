package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends transactional mail (account confirmation, password reset)
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// SMTPMailer sends mail over plain SMTP with STARTTLS
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	if config.Port == 0 {
		config.Port = 587
	}
	return &SMTPMailer{config: config}
}

// Send delivers a single plain-text message
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	var msg strings.Builder
	msg.WriteString("From: " + m.config.Sender + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, m.config.Sender, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// NopMailer logs instead of sending; used when SMTP is not configured
type NopMailer struct{}

// Send implements Mailer
func (NopMailer) Send(to, subject, _ string) error {
	log.Printf("mail disabled, skipping message to %s (%s)", to, subject)
	return nil
}
