package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender   `json:"sender"`
	To          []BrevoTo     `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
	ReplyTo     *BrevoReplyTo `json:"replyTo,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BrevoReplyTo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Sender dispatches transactional email. Nil = no-op (tests, local dev).
type Sender interface {
	SendInvite(ctx context.Context, toEmail, inviteLink, workspaceName, role string) error
}

// BrevoClient sends emails via the Brevo transactional API.
// Env: BREVO_API_KEY, MAIL_FROM.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@huddle.work"
}

// send sends one email via the Brevo API. An empty API key is a no-op rather
// than an error, so unconfigured environments don't spam the logs.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Huddle"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
		ReplyTo:     &BrevoReplyTo{Email: "support@huddle.work", Name: "Huddle Support"},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendInvite sends the workspace invitation email.
func (c *BrevoClient) SendInvite(ctx context.Context, toEmail, inviteLink, workspaceName, role string) error {
	if c.APIKey == "" {
		return nil
	}
	subject := fmt.Sprintf("You have been invited to join %s on Huddle", workspaceName)
	content := invitationContent(inviteLink, workspaceName, role)
	return c.send(ctx, toEmail, subject, EmailLayout(content))
}

func invitationContent(inviteLink, workspaceName, role string) string {
	return fmt.Sprintf(`
    <h1>You've Been Invited to Join %s</h1>
    <p>You have been invited to join the <strong>%s</strong> workspace on <strong>Huddle</strong> as a <strong>%s</strong>.</p>
    <p>Click the button below to review and accept your invitation:</p>
    <center>
      <a href="%s" class="huddle-button">Accept Invitation</a>
    </center>
    <p style="margin-top:20px;font-size:14px;color:#666;">
      This invitation link will expire in 7 days. If you were not expecting this invitation, you can safely ignore this email.
    </p>
    <p>— The Huddle Team</p>
`, EscapeHTML(workspaceName), EscapeHTML(workspaceName), EscapeHTML(role), inviteLink)
}
