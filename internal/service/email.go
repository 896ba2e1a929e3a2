package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendGroupInvitation(ctx context.Context, toEmail, groupName, inviteCode, invitedBy string) error {
	subject := fmt.Sprintf("Invitation to join %s", groupName)
	body := fmt.Sprintf(
		"Hello,\n\n%s has invited you to join the group %q.\n\nUse the following invite code to join:\n\n%s\n\nBest regards,\nThe HuddleUp Team",
		invitedBy, groupName, inviteCode,
	)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
