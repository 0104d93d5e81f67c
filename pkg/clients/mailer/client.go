package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/pantry-helper/internal/config"
)

// ErrDisabled is returned when no email credentials are configured.
var ErrDisabled = errors.New("email delivery is not configured")

// Client exposes the transactional email operations used by the application.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one templated email. To may hold several comma separated
// recipients.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// APIClient is a resty-backed implementation of Client for the EmailJS REST
// API.
type APIClient struct {
	httpClient *resty.Client
	cfg        config.EmailConfig
}

// NewClient builds an email API client using the provided configuration values.
func NewClient(cfg config.EmailConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient, cfg: cfg}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send delivers msg through the configured template.
func (c *APIClient) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Enabled() {
		return ErrDisabled
	}
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}

	params := map[string]string{
		"subject":   msg.Subject,
		"body":      msg.Body,
		"to_email":  strings.Join(msg.To, ", "),
		"from_name": c.cfg.FromName,
	}
	if msg.ReplyTo != "" {
		params["reply_to"] = msg.ReplyTo
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendRequest{
			ServiceID:      c.cfg.ServiceID,
			TemplateID:     c.cfg.TemplateID,
			UserID:         c.cfg.PublicKey,
			AccessToken:    c.cfg.PrivateKey,
			TemplateParams: params,
		}).
		Post("/email/send")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("email api error: code=%d, message=%s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return nil
}
