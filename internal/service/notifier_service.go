package service

import (
	"fmt"
	"time"

	"doctor-intro-service/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const (
	mailSendAttempts = 3
	mailRetryBackoff = 2 * time.Second
)

// Notifier delivers the one-time recording invitation for a doctor.
type Notifier interface {
	SendRecordingLink(to, doctorName, videoID string) error
}

type smtpNotifier struct {
	dialer          *gomail.Dialer
	from            string
	frontendBaseURL string
	log             *logrus.Logger
}

func NewSMTPNotifier(cfg config.MailConfig, frontendBaseURL string, log *logrus.Logger) Notifier {
	return &smtpNotifier{
		dialer:          gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:            cfg.From,
		frontendBaseURL: frontendBaseURL,
		log:             log,
	}
}

func (n *smtpNotifier) SendRecordingLink(to, doctorName, videoID string) error {
	email := BuildRecordingEmail(RecordingEmailData{
		DoctorName:    doctorName,
		RecordingLink: fmt.Sprintf("%s/record/%s", n.frontendBaseURL, videoID),
	})
	email.To = to

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	msg.AddAlternative("text/html", email.HTMLBody)

	var err error
	for attempt := 1; attempt <= mailSendAttempts; attempt++ {
		if err = n.dialer.DialAndSend(msg); err == nil {
			return nil
		}
		n.log.Warnf("Failed to send recording email (attempt %d/%d): %+v", attempt, mailSendAttempts, err)
		if attempt < mailSendAttempts {
			time.Sleep(time.Duration(attempt) * mailRetryBackoff)
		}
	}

	return fmt.Errorf("send recording email after %d attempts: %w", mailSendAttempts, err)
}
