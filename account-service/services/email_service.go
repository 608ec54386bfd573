package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"orghub-backend/shared/config"
)

// EmailMessage represents an outbound email
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// Mailer is the outbound mail collaborator. The SMTP implementation below is
// the default; tests substitute a recording fake.
type Mailer interface {
	Send(message EmailMessage) error
}

// EmailService sends email over SMTP
type EmailService struct {
	config *config.Config
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

// Send sends an email via SMTP
func (es *EmailService) Send(message EmailMessage) error {
	if len(message.To) == 0 {
		return fmt.Errorf("recipient list cannot be empty")
	}
	if message.Subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}
	if message.Body == "" {
		return fmt.Errorf("body cannot be empty")
	}

	host := es.config.SMTPHost
	port := es.config.SMTPPort
	username := es.config.SMTPUsername
	password := es.config.SMTPPassword
	from := es.config.EmailFrom

	if host == "" || username == "" || password == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	auth := smtp.PlainAuth("", username, password, host)
	addr := fmt.Sprintf("%s:%s", host, port)
	msg := es.buildEmailMessage(message)

	// Port 465 uses implicit TLS (SSL), other ports may use explicit TLS (STARTTLS)
	if port == "465" || es.config.SMTPUseTLS {
		return es.sendWithTLS(addr, auth, from, message.To, []byte(msg))
	}

	return smtp.SendMail(addr, auth, from, message.To, []byte(msg))
}

// sendWithTLS sends email over an implicit TLS connection
func (es *EmailService) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         strings.Split(addr, ":")[0],
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, strings.Split(addr, ":")[0])
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}

	if err = client.Mail(from); err != nil {
		return err
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

// buildEmailMessage builds the raw message with headers
func (es *EmailService) buildEmailMessage(message EmailMessage) string {
	from := es.config.EmailFrom
	fromName := es.config.EmailFromName

	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(message.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", message.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if message.IsHTML {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}

	msg.WriteString("\r\n")
	msg.WriteString(message.Body)

	return msg.String()
}
