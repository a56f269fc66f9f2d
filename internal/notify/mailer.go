package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/opsmith/scriptkit/internal/config"
	"github.com/opsmith/scriptkit/internal/logging"
)

// Config keys the mailer reads. EmailServer and EmailFrom are required;
// credentials and the rest are optional.
const (
	KeyEmailServer = "EmailServer"
	KeyEmailPort   = "EmailPort"
	KeyEmailFrom   = "EmailFrom"
	KeyEmailUser   = "EmailUser"
	KeyEmailPass   = "EmailPass"
	KeyEmailUseSSL = "EmailUseSSL"
	KeyNotifList   = "NotifList"
)

// DefaultPort is the submission port used when EmailPort is absent.
const DefaultPort = 587

// Message describes one email. Body takes precedence over BodyFile; BodyFile
// is resolved against the config store's base directory when relative.
// Elevate raises the success log from debug to warn so the send is visible in
// quiet cron logs.
type Message struct {
	Subject  string
	Body     string
	BodyFile string
	To       string
	Elevate  bool
}

// Mailer sends email and text-style notifications using account settings
// from the config table.
type Mailer struct {
	cfg *config.Store
	log *logging.Controller

	// dial is swapped out by tests to observe the composed message without a
	// network round trip.
	dial func(ctx context.Context, c *mail.Client, msgs ...*mail.Msg) error
}

// New creates a Mailer bound to the given store and its logging controller.
func New(cfg *config.Store) *Mailer {
	return &Mailer{
		cfg: cfg,
		log: cfg.Log(),
		dial: func(ctx context.Context, c *mail.Client, msgs ...*mail.Msg) error {
			return c.DialAndSendWithContext(ctx, msgs...)
		},
	}
}

// Email sends one message. The To spec is either a whitespace-separated list
// of addresses (detected by a '@') or the name of a config key holding such a
// list. When the DontEmail config flag is true the send is suppressed with a
// warning and reported as success.
func (m *Mailer) Email(ctx context.Context, msg Message) error {
	if suppressed(m.cfg, config.KeyDontEmail) {
		m.log.Warn("DontEmail is set, message not sent", zap.String("subject", msg.Subject))
		return nil
	}

	body, err := m.resolveBody(msg)
	if err != nil {
		return err
	}

	recipients, err := m.resolveRecipients(msg.To)
	if err != nil {
		return &NotifyError{Subject: msg.Subject, Recipient: msg.To, Err: err}
	}

	from, err := m.cfg.GetString(KeyEmailFrom)
	if err != nil {
		return err
	}

	mm := mail.NewMsg()
	if err := mm.From(from); err != nil {
		return &NotifyError{Subject: msg.Subject, Err: fmt.Errorf("invalid sender %q: %w", from, err)}
	}
	if err := mm.To(recipients...); err != nil {
		return &NotifyError{Subject: msg.Subject, Recipient: msg.To, Err: err}
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, body)

	client, err := m.client()
	if err != nil {
		return err
	}

	if err := m.dial(ctx, client, mm); err != nil {
		return &NotifyError{Subject: msg.Subject, Recipient: strings.Join(recipients, ", "), Err: err}
	}

	sent := m.log.Debug
	if msg.Elevate {
		sent = m.log.Warn
	}
	sent("message sent",
		zap.String("subject", msg.Subject),
		zap.Strings("to", recipients),
	)
	return nil
}

// Notify sends a text-style notification to the NotifList addresses. When
// the DontNotif config flag is true the send is suppressed with a warning.
// The send is always elevated so it shows up in cron logs.
func (m *Mailer) Notify(ctx context.Context, subject, body string) error {
	if suppressed(m.cfg, config.KeyDontNotif) {
		m.log.Warn("DontNotif is set, notification not sent",
			zap.String("subject", subject),
			zap.String("body", body),
		)
		return nil
	}

	return m.Email(ctx, Message{
		Subject: subject,
		Body:    body,
		To:      KeyNotifList,
		Elevate: true,
	})
}

// resolveBody picks the message body and appends the sent timestamp trailer.
func (m *Mailer) resolveBody(msg Message) (string, error) {
	body := msg.Body
	if body == "" {
		if msg.BodyFile == "" {
			return "", &NotifyError{Subject: msg.Subject, Err: ErrNoBody}
		}
		path := msg.BodyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.cfg.BaseDir(), path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &NotifyError{Subject: msg.Subject, Err: fmt.Errorf("%w: %v", ErrNoBody, err)}
		}
		body = string(data)
	}
	return body + fmt.Sprintf("\n(sent %s)", time.Now().Format(time.RFC1123)), nil
}

// resolveRecipients turns a recipient spec into an address list.
func (m *Mailer) resolveRecipients(to string) ([]string, error) {
	spec := to
	if !strings.Contains(to, "@") {
		v, err := m.cfg.GetString(to)
		if err != nil {
			return nil, err
		}
		spec = v
	}
	addrs := strings.Fields(spec)
	if len(addrs) == 0 {
		return nil, ErrNoRecipients
	}
	return addrs, nil
}

// client builds the SMTP client from the config table.
func (m *Mailer) client() (*mail.Client, error) {
	host, err := m.cfg.GetString(KeyEmailServer)
	if err != nil {
		return nil, err
	}

	port := DefaultPort
	if v := m.cfg.GetDefault(KeyEmailPort, nil); v != nil {
		p, err := m.cfg.GetInt(KeyEmailPort)
		if err != nil {
			return nil, err
		}
		port = p
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if ssl, _ := m.cfg.GetBool(KeyEmailUseSSL); ssl {
		opts = append(opts, mail.WithSSL())
	}

	if user := m.cfg.GetDefault(KeyEmailUser, ""); user != "" {
		pass, err := m.cfg.GetString(KeyEmailPass)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(fmt.Sprint(user)),
			mail.WithPassword(pass),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, &NotifyError{Err: fmt.Errorf("smtp client for %s: %w", host, err)}
	}
	return client, nil
}

// suppressed reads a DontEmail/DontNotif style flag, accepting both the bool
// and the legacy "True" string form.
func suppressed(cfg *config.Store, key string) bool {
	switch v := cfg.GetDefault(key, false).(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
