package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type Message struct {
	Recipient string
	Subject   string
	Body      string
	HTML      string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// ===============================
// log / noop
// ===============================

type LogProvider struct {
	Channel Channel
}

func (p LogProvider) Send(ctx context.Context, msg Message) error {
	log.Info().
		Str("channel", string(p.Channel)).
		Str("recipient", msg.Recipient).
		Str("subject", msg.Subject).
		Msg(msg.Body)
	return nil
}

type NoopProvider struct{}

func (NoopProvider) Send(context.Context, Message) error { return nil }

// ===============================
// SMTP
// ===============================

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	return p.dialer.DialAndSend(m)
}

// ===============================
// webhook (SMS gateways)
// ===============================

type WebhookProvider struct {
	channel Channel
	url     string
	token   string
	client  *http.Client
}

func NewWebhookProvider(channel Channel, url, token string) *WebhookProvider {
	return &WebhookProvider{
		channel: channel,
		url:     url,
		token:   token,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *WebhookProvider) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(map[string]string{
		"channel":   string(p.channel),
		"recipient": msg.Recipient,
		"message":   msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s webhook rejected request: %s", p.channel, resp.Status)
	}
	return nil
}

var errNoRecipient = errors.New("no recipient")
