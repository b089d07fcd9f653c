package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"shopfolio/internal/platform/config"
)

func sendWithSendGrid(ctx context.Context, cfg config.Email, msg Message) (string, error) {
	from := mail.NewEmail("Shopfolio", cfg.FromEmail)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	m.AddCategories(msg.Kind)

	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return fmt.Sprintf("sendgrid-%d", resp.StatusCode), nil
}
