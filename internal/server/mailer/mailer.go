// Package mailer delivers one-time codes to users over SMTP.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/wneessen/go-mail"
)

const otpSubject = "Your OTP Code - Clicon.io"

//go:embed templates/*.html
var templatesFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templatesFS, "templates/otp.html"))

// Dispatcher sends the registration OTP to a recipient.
type Dispatcher interface {
	SendOTP(ctx context.Context, name, email, otp string) error
}

// SMTPConfig is the relay and sender identity used by SMTPDispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ReplyTo  string
	// ValidFor is quoted in the message body.
	ValidFor time.Duration
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// newSender builds the SMTP client; replaced in tests.
var newSender = func(cfg SMTPConfig) (sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return mail.NewClient(cfg.Host, opts...)
}

// SMTPDispatcher renders the OTP template and sends it through an SMTP relay.
type SMTPDispatcher struct {
	cfg    SMTPConfig
	client sender
	logger logging.Logger
}

func NewSMTPDispatcher(cfg SMTPConfig, logger logging.Logger) (*SMTPDispatcher, error) {
	client, err := newSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPDispatcher{cfg: cfg, client: client, logger: logger.With("module", "mailer")}, nil
}

func (d *SMTPDispatcher) SendOTP(ctx context.Context, name, email, otp string) error {
	msg, err := d.buildOTPMessage(name, email, otp)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMailDispatch, err)
	}

	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		d.logger.Error(ctx, "otp mail failed", "to", email, "error", err)
		return fmt.Errorf("%w: %v", common.ErrMailDispatch, err)
	}

	d.logger.Info(ctx, "otp mail sent", "to", email)
	return nil
}

func (d *SMTPDispatcher) buildOTPMessage(name, email, otp string) (*mail.Msg, error) {
	body, err := renderOTP(name, otp, d.cfg.ValidFor)
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.From(d.cfg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if d.cfg.ReplyTo != "" {
		if err := m.ReplyTo(d.cfg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
	}
	if err := m.AddToFormat(name, email); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(otpSubject)
	m.SetBodyString(mail.TypeTextHTML, body)

	return m, nil
}

func renderOTP(name, otp string, validFor time.Duration) (string, error) {
	if validFor <= 0 {
		validFor = 5 * time.Minute
	}

	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Name     string
		OTP      string
		ValidFor string
	}{
		Name:     name,
		OTP:      otp,
		ValidFor: humanize(validFor),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func humanize(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
