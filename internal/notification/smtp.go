package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// SMTPTransport delivers mail via SMTP using the go-mail library.
type SMTPTransport struct {
	config SMTPConfig
}

// NewSMTPTransport creates a new SMTPTransport with the given configuration.
func NewSMTPTransport(config SMTPConfig) *SMTPTransport {
	return &SMTPTransport{config: config}
}

// Name returns the transport identifier.
func (p *SMTPTransport) Name() string { return "smtp" }

// Send delivers msg using the configured SMTP server and returns the
// generated Message-ID.
func (p *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	m, err := p.buildMsg(msg)
	if err != nil {
		return "", err
	}

	c, err := mail.NewClient(p.config.Host, p.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return "", err
	}
	return m.GetMessageID(), nil
}

func (p *SMTPTransport) buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(p.config.FromAddr); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	for _, r := range msg.To {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if err := m.AddTo(r); err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", r, err)
		}
	}

	m.Subject(msg.Subject)
	m.SetMessageID()

	if msg.Text != "" {
		// Plain-text fallback for clients that don't render HTML.
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

func (p *SMTPTransport) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(p.config.Port),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(p.config.Encryption)),
	}
	if p.config.Encryption == "ssl_tls" {
		opts = append(opts, mail.WithSSL())
	}
	if p.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(p.config.Timeout))
	}
	if p.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.config.Username),
			mail.WithPassword(p.config.Password),
		)
	}
	return opts
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
