// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"net/textproto"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jordan-wright/email"

	dbm "donations/internal/models/db_models"
	"donations/pkg/utils"
)

type IMailService interface {
	SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error
	SendDonationReceipt(donation *dbm.Donation) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool // true for SMTPS 465, false for STARTTLS 587
	AppName    string
	AppBaseURL string
}

// mailSender delivers a composed message; replaced in tests.
type mailSender func(cfg SMTPConfig, e *email.Email) error

type smtpMailService struct {
	cfg      SMTPConfig
	htmlTpl  *template.Template
	textTpl  *texttemplate.Template
	sendMail mailSender
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and sender are required")
	}

	return &smtpMailService{
		cfg:      cfg,
		htmlTpl:  template.Must(template.New("notifyHTML").Parse(baseHTMLTemplate)),
		textTpl:  texttemplate.Must(texttemplate.New("plainText").Parse(plainTextTemplate)),
		sendMail: sendSMTP,
	}, nil
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	html, text, err := s.renderEmail(EmailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: ctaURL,
		ButtonTxt: ctaText,
		AppName:   s.cfg.AppName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) SendDonationReceipt(donation *dbm.Donation) error {
	if !donation.IsSuccessful() {
		return fmt.Errorf("donation %s is not successful", donation.UUID)
	}

	body := fmt.Sprintf(
		"Dear %s, thank you for your donation of %.2f € received on %s. Your reference is %s.",
		donation.FullName(),
		donation.AmountInEuros(),
		utils.FormatDisplayParis(*donation.DonatedAt),
		donation.UUID,
	)
	link := strings.TrimRight(s.cfg.AppBaseURL, "/") + "/donate"

	return s.SendMailToNotifyUser(donation.EmailAddress, "Thank you for your donation", body, "Give again", link)
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:40px 16px;background:#f1f5f9;font-family:-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#0f172a">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;padding:32px">
    <div style="font-weight:700;font-size:18px">{{.AppName}}</div>
    <h1 style="font-size:22px">{{.Title}}</h1>
    <p style="line-height:1.6">{{.Intro}}</p>
    {{if .ButtonURL}}
      <p><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;border-radius:8px;text-decoration:none">{{.ButtonTxt}}</a></p>
    {{end}}
    <p style="color:#64748b;font-size:12px">© {{.Year}} {{.AppName}}</p>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}

{{if .ButtonURL}}Open this link:
{{.ButtonURL}}
{{end}}
-- {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	e := &email.Email{
		To:      []string{to},
		From:    s.formatFromHeader(),
		Subject: subject,
		Text:    []byte(textBody),
		HTML:    []byte(htmlBody),
		Headers: textproto.MIMEHeader{},
	}
	return s.sendMail(s.cfg, e)
}

func (s *smtpMailService) formatFromHeader() string {
	if s.cfg.FromName == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
}

func sendSMTP(cfg SMTPConfig, e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	tlsCfg := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	if cfg.UseSSL {
		return e.SendWithTLS(addr, auth, tlsCfg)
	}
	return e.SendWithStartTLS(addr, auth, tlsCfg)
}
