package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"referral-analytics/config"
	"referral-analytics/report"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	config *config.Config
	send   sendFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg, send: smtp.SendMail}
}

// Configured - SMTP-хост и пользователь заданы.
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != "" && s.config.SMTPUser != ""
}

// SendReport отправляет текст отчёта в теле письма и тот же текст вложением file_name.
func (s *EmailService) SendReport(to string, res *report.Result) error {
	if !s.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	msg, err := buildReportMessage(s.config.EmailFrom, to, res)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := s.send(addr, auth, s.config.EmailFrom, []string{to}, msg); err != nil {
		return fmt.Errorf("send report to %s: %w", to, err)
	}
	return nil
}

func buildReportMessage(from, to string, res *report.Result) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	text, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(text, []byte(res.Content)); err != nil {
		return nil, err
	}

	attachment, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName})},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(attachment, []byte(res.Content)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", "📊 Relatório de indicações: "+res.FileName))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// writeBase64 пишет base64 строками по 76 символов.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", encoded[:76]); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", encoded)
	return err
}
