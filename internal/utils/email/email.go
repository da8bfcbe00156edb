package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/workhive/freelance-service/internal/config"
)

// Sender handles sending emails via SMTP. Delivery is best-effort:
// callers log failures and never fail a workflow on one.
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendApprovalRequested notifies a client that a freelancer asked for
// a milestone to be approved
func (s *Sender) SendApprovalRequested(to, clientName, projectTitle, milestoneTitle string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Milestone Approval Requested"

	body := fmt.Sprintf(
		"Dear %s,\n\n", clientName,
	)
	body += fmt.Sprintf(
		"The milestone \"%s\" on your project \"%s\" has been submitted for approval.\n"+
			"Please review the work and approve or request changes.\n",
		milestoneTitle, projectTitle,
	)
	body += "\nBest regards,\nWorkHive"
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendEscrowReleased notifies a freelancer that an approved milestone
// released its escrow amount into their wallet
func (s *Sender) SendEscrowReleased(to, freelancerName, milestoneTitle string, amount, balance float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Milestone Approved - Payment Released"

	body := fmt.Sprintf(
		"Dear %s,\n\n", freelancerName,
	)
	body += fmt.Sprintf(
		"Your milestone \"%s\" has been approved and $%.2f has been released to your wallet.\n"+
			"Release time: %s\n"+
			"Current balance: $%.2f\n",
		milestoneTitle, amount, time.Now().Format("2006-01-02 15:04:05"), balance,
	)
	body += "\nBest regards,\nWorkHive"
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendTopUpNotification notifies a user that auto-replenish credited
// their wallet
func (s *Sender) SendTopUpNotification(to, username string, amount, balance float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Wallet Auto Top-Up"

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"Your wallet balance dropped below your configured threshold, so $%.2f was added automatically.\n"+
			"Top-up time: %s\n"+
			"Current balance: $%.2f\n",
		amount, time.Now().Format("2006-01-02 15:04:05"), balance,
	)
	body += "\nBest regards,\nWorkHive"
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	if s.cfg.NotificationsOff {
		s.logger.Debugf("Notifications disabled, skipping email to %s: %s", to, e.Subject)
		return nil
	}
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
