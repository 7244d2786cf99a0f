package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailClient struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailClient(apiKey, fromEmail, fromName string) *EmailClient {
	return &EmailClient{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendWelcomeEmail sends the post-registration greeting mail.
func (e *EmailClient) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = "Welcome to Fearless Clothing"
	message.AddPersonalizations(personalization)

	plain := fmt.Sprintf("Hi %s,\n\nWelcome to Fearless Clothing! Your account is ready.\n", toName)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to <strong>Fearless Clothing</strong>! Your account is ready.</p>", toName)

	message.AddContent(mail.NewContent("text/plain", plain))
	message.AddContent(mail.NewContent("text/html", html))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
