package mail_fx

import (
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"donations/internal/config"
	"donations/internal/services"
)

var Module = fx.Provide(provideMailService)

// provideMailService returns nil when SMTP is not configured; receipts are
// then skipped.
func provideMailService(cfg *config.Config) services.IMailService {
	mailService, err := services.NewSMTPMailService(services.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		FromName:   cfg.SMTP.FromName,
		UseSSL:     cfg.SMTP.UseSSL,
		AppName:    cfg.SMTP.FromName,
		AppBaseURL: cfg.AppBaseURL,
	})
	if err != nil {
		log.WithError(err).Warn("Mail service disabled, donation receipts will not be sent")
		return nil
	}

	return mailService
}
