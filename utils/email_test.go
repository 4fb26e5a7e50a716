package utils

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"

	"referral-analytics/config"
	"referral-analytics/report"
)

func TestSendReportRequiresSMTP(t *testing.T) {
	svc := NewEmailService(&config.Config{})
	if err := svc.SendReport("ops@example.com", &report.Result{}); err == nil {
		t.Fatalf("expected error without SMTP settings")
	}
}

func TestSendReportBuildsMultipartMessage(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "bot", EmailFrom: "bot@example.com"}
	svc := NewEmailService(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	res := &report.Result{Content: "Resumo executivo: 15 pontos.", FileName: "relatorio_indicacoes_completo.txt"}
	if err := svc.SendReport("ops@example.com", res); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || len(gotTo) != 1 || gotTo[0] != "ops@example.com" {
		t.Fatalf("unexpected envelope %s %v", gotAddr, gotTo)
	}

	m, err := mail.ReadMessage(bytes.NewReader(gotMsg))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/mixed" {
		t.Fatalf("content type = %q (%v)", mediaType, err)
	}

	mr := multipart.NewReader(m.Body, params["boundary"])
	parts := 0
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		parts++
		raw, _ := io.ReadAll(p)
		if !strings.Contains(string(raw), "UmVzdW1vIGV4ZWN1dGl2bzogMTUgcG9udG9zLg==") {
			t.Fatalf("part %d does not carry the encoded content: %s", parts, raw)
		}
		if parts == 2 && p.FileName() != res.FileName {
			t.Fatalf("attachment name = %q", p.FileName())
		}
	}
	if parts != 2 {
		t.Fatalf("expected 2 parts, got %d", parts)
	}
}
