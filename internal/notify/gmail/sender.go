package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Sender dispatches digest emails through the Gmail API. It implements
// the notify.Dispatcher interface.
type Sender struct {
	credPath  string
	tokenPath string
	service   *gmail.Service
	userEmail string
}

// New creates a new Gmail sender
func New(credPath, tokenPath string) *Sender {
	return &Sender{
		credPath:  credPath,
		tokenPath: tokenPath,
	}
}

// IsAuthenticated checks if valid token exists
func (s *Sender) IsAuthenticated() bool {
	_, err := loadToken(s.tokenPath)
	return err == nil
}

// Authenticate performs OAuth authentication
func (s *Sender) Authenticate(ctx context.Context) error {
	config, err := loadCredentials(s.credPath)
	if err != nil {
		return err
	}

	client, err := getClient(ctx, config, s.tokenPath)
	if err != nil {
		return fmt.Errorf("failed to get OAuth client: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	s.service = service

	// Get and cache the sending address
	profile, err := service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get user profile: %w", err)
	}

	s.userEmail = profile.EmailAddress
	return nil
}

// Send delivers one HTML message to an address
func (s *Sender) Send(ctx context.Context, to, subject, html string) error {
	if s.service == nil {
		return fmt.Errorf("not authenticated - call Authenticate() first")
	}

	raw := base64.URLEncoding.EncodeToString(buildMessage(s.userEmail, to, subject, html))

	_, err := s.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}

	return nil
}

// buildMessage assembles an RFC 2822 message with an HTML body
func buildMessage(from, to, subject, html string) []byte {
	var msg strings.Builder

	if from != "" {
		msg.WriteString("From: " + from + "\r\n")
	}
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	return []byte(msg.String())
}
