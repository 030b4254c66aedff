// Package mailer provides the email dispatch collaborator: an SMTP client
// that sends HTML messages.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rotisserie/eris"
)

// Client defines the email dispatch operation.
type Client interface {
	// Send dispatches one HTML message.
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// sendFunc matches smtp.SendMail, replaceable for testing.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpClient struct {
	cfg  Config
	send sendFunc
}

// Option configures the SMTP client.
type Option func(*smtpClient)

// WithSendFunc replaces the SMTP send function (for testing).
func WithSendFunc(fn sendFunc) Option {
	return func(c *smtpClient) {
		c.send = fn
	}
}

// NewClient creates an SMTP mailer.
func NewClient(cfg Config, opts ...Option) Client {
	c := &smtpClient{cfg: cfg, send: smtp.SendMail}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *smtpClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "mailer: context done")
	}
	if msg.To == "" {
		return eris.New("mailer: recipient is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	if err := c.send(addr, auth, c.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return eris.Wrap(err, "mailer: send")
	}
	return nil
}
