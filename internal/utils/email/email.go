package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/vantrack/vantrack-api/internal/config"
	"github.com/vantrack/vantrack-api/internal/models"
)

// Sender handles sending emails via SMTP
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

// SendBudgetAlert notifies a user that a budget crossed its alert threshold
func (s *Sender) SendBudgetAlert(to, name string, progress models.BudgetProgress) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if progress.Status == "over_budget" {
		e.Subject = fmt.Sprintf("Budget exceeded: %s", progress.Name)
	} else {
		e.Subject = fmt.Sprintf("Budget alert: %s", progress.Name)
	}

	body := fmt.Sprintf("Dear %s,\n\n", name)
	if progress.Status == "over_budget" {
		body += fmt.Sprintf(
			"Your %s budget %q has exceeded its limit.\n"+
				"Spent so far this period: %s of %s (%.0f%%).\n",
			progress.Period, progress.Name,
			progress.CurrentAmount.StringFixed(2), progress.Amount.StringFixed(2),
			progress.ProgressPercent,
		)
	} else {
		body += fmt.Sprintf(
			"Your %s budget %q has reached %.0f%% of its limit.\n"+
				"Spent so far this period: %s of %s.\n",
			progress.Period, progress.Name, progress.ProgressPercent,
			progress.CurrentAmount.StringFixed(2), progress.Amount.StringFixed(2),
		)
	}
	body += "\nBest regards,\nVanTrack"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
