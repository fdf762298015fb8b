package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

// SendMail sends an email via SMTP using env-driven settings.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendWelcomeMail sends the one-time payment confirmation to a new subscriber.
func SendWelcomeMail(to, name, plan string) error {
	subject := "Welcome aboard - your subscription is active"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your payment was received and your <strong>%s</strong> subscription is now active.</p>"+
			"<p>You can now upload your verification documents from your account page.</p>"+
			"<p>Thanks for signing up!</p>",
		name, plan,
	)
	return SendMail(to, subject, body)
}
