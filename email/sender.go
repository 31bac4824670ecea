// Package email renders and sends the full-batch HTML question report.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/pevans/forumscout/classify"
	"github.com/pevans/forumscout/forum"
)

// Config holds SMTP transport settings and recipient lists.
type Config struct {
	Server      string
	Port        int
	Sender      string
	SenderName  string
	DisplayFrom string
	Password    string
	UseSSL      bool
	To          []string
	CC          []string
	BCC         []string
}

// Sender delivers the HTML question report over SMTP.
type Sender struct {
	cfg Config
	log *slog.Logger
}

// NewSender creates an email sender. The port defaults to 465 for SSL and
// 587 for STARTTLS when unset.
func NewSender(cfg Config, log *slog.Logger) *Sender {
	if cfg.Port == 0 {
		if cfg.UseSSL {
			cfg.Port = 465
		} else {
			cfg.Port = 587
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sender{cfg: cfg, log: log}
}

// Send renders the report for the question batch and delivers it to the
// configured recipients. Classifications, when present, annotate each
// question with its category. At least one recipient and a full transport
// configuration are required.
func (s *Sender) Send(ctx context.Context, questions []forum.QuestionRecord, classifications map[string]classify.Result, since string) error {
	if len(questions) == 0 {
		return fmt.Errorf("no questions to report")
	}
	if len(s.cfg.To)+len(s.cfg.CC)+len(s.cfg.BCC) == 0 {
		return fmt.Errorf("no recipients configured")
	}
	if s.cfg.Server == "" || s.cfg.Sender == "" || s.cfg.Password == "" {
		return fmt.Errorf("incomplete SMTP configuration")
	}

	html, err := RenderReport(questions, classifications, since)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	msg := mail.NewMsg()
	from := s.cfg.DisplayFrom
	if from == "" {
		from = s.cfg.Sender
	}
	if s.cfg.SenderName != "" {
		if err := msg.FromFormat(s.cfg.SenderName, from); err != nil {
			return fmt.Errorf("invalid sender address: %w", err)
		}
	} else if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}

	if len(s.cfg.To) > 0 {
		if err := msg.To(s.cfg.To...); err != nil {
			return fmt.Errorf("invalid TO recipient: %w", err)
		}
	}
	if len(s.cfg.CC) > 0 {
		if err := msg.Cc(s.cfg.CC...); err != nil {
			return fmt.Errorf("invalid CC recipient: %w", err)
		}
	}
	if len(s.cfg.BCC) > 0 {
		if err := msg.Bcc(s.cfg.BCC...); err != nil {
			return fmt.Errorf("invalid BCC recipient: %w", err)
		}
	}

	msg.Subject(fmt.Sprintf("Unanswered Questions Report (%d questions)", len(questions)))
	msg.SetBodyString(mail.TypeTextHTML, html)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Sender),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.UseSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.cfg.Server, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	s.log.Info("sending email report",
		"server", s.cfg.Server, "port", s.cfg.Port,
		"to", len(s.cfg.To), "cc", len(s.cfg.CC), "bcc", len(s.cfg.BCC))

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
