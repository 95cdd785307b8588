// Package mailer integrates the Gmail API as the mail-provider
// collaborator of the triage pipeline.
package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"supportpilot/internal/model"
)

// GmailClient wraps one account's Gmail service.
type GmailClient struct {
	service *gmail.Service
	account string
}

// NewGmailClient builds a client for a stored token pair.
func NewGmailClient(ctx context.Context, oauthCfg *oauth2.Config, token *oauth2.Token, account string) (*GmailClient, error) {
	httpClient := oauthCfg.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailClient{
		service: service,
		account: account,
	}, nil
}

// ListUnseen fetches all unread messages in full, in the order the API
// returns them.
func (c *GmailClient) ListUnseen(ctx context.Context) ([]*model.Message, error) {
	resp, err := c.service.Users.Messages.List("me").Q("is:unread").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*model.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		full, err := c.service.Users.Messages.Get("me", m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		messages = append(messages, c.parseMessage(full))
	}

	return messages, nil
}

func (c *GmailClient) parseMessage(msg *gmail.Message) *model.Message {
	var subject, sender string
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				subject = h.Value
			case "From":
				sender = h.Value
			}
		}
	}

	return &model.Message{
		ID:      msg.Id,
		Subject: subject,
		Body:    extractBody(msg.Payload),
		Sender:  sender,
		Account: c.account,
	}
}

// extractBody returns the first text/plain part of the payload.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil {
				if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					return string(data)
				}
			}
		}
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}
	return ""
}

// SendReply sends an outbound reply. The subject is the inbound subject
// prefixed "Re: ".
func (c *GmailClient) SendReply(ctx context.Context, to, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: Re: %s\r\n\r\n%s\r\n", to, subject, body)
	encoded := base64.URLEncoding.EncodeToString([]byte(raw))

	_, err := c.service.Users.Messages.Send("me", &gmail.Message{Raw: encoded}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}
