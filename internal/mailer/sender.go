package mailer

import "context"

// EmailSender delivers transactional email. Implemented by the Brevo client;
// tests substitute fakes.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, subject, html string) error
}

// SMSSender delivers short messages. Implemented by the Twilio client.
type SMSSender interface {
	SendSMS(ctx context.Context, toPhoneNumber, message string) error
}
