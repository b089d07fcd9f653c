package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfolio/internal/platform/config"
	"shopfolio/internal/platform/logger"
	"shopfolio/internal/platform/metrics"
	dErrors "shopfolio/pkg/domain-errors"
)

func newService(cfg config.Email) *Service {
	return New(cfg, logger.Discard(), metrics.NewForTest())
}

func TestSendRejectsMissingFields(t *testing.T) {
	s := newService(config.Email{})
	cases := []Message{
		{Subject: "s", HTML: "<p>h</p>"},
		{To: "a@b.com", HTML: "<p>h</p>"},
		{To: "a@b.com", Subject: "s"},
	}
	for _, msg := range cases {
		_, err := s.Send(context.Background(), msg)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest), "message %+v", msg)
	}
}

func TestSendFallsBackToConsole(t *testing.T) {
	s := newService(config.Email{})
	res, err := s.Send(context.Background(), Message{
		To: "a@b.com", Subject: "s", HTML: "<p>h</p>",
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.MessageID, "dev-")
}

func TestSendPrefersSendGridWhenConfigured(t *testing.T) {
	s := newService(config.Email{SendGridAPIKey: "key", FromEmail: "noreply@shopfolio.dev"})
	var got Message
	s.sendGrid = func(_ context.Context, _ config.Email, msg Message) (string, error) {
		got = msg
		return "sg-123", nil
	}

	res, err := s.Send(context.Background(), Message{
		To: "a@b.com", Subject: "s", HTML: "<p>h</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "sg-123", res.MessageID)
	assert.False(t, res.Fallback)
	assert.Equal(t, "transactional", got.Kind, "kind defaults when omitted")
}

func TestSendGridFailureSurfacesAsUnavailable(t *testing.T) {
	s := newService(config.Email{SendGridAPIKey: "key", FromEmail: "noreply@shopfolio.dev"})
	s.sendGrid = func(context.Context, config.Email, Message) (string, error) {
		return "", errors.New("upstream 503")
	}

	_, err := s.Send(context.Background(), Message{
		To: "a@b.com", Subject: "s", HTML: "<p>h</p>",
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, "Failed to send email", dErrors.Message(err))
}

func TestSendUsesSMTPWhenOnlySMTPConfigured(t *testing.T) {
	s := newService(config.Email{SMTPHost: "mail.example.com", SMTPPort: 587, FromEmail: "noreply@shopfolio.dev"})
	s.sendSMTP = func(context.Context, config.Email, Message) (string, error) {
		return "smtp-1", nil
	}

	res, err := s.Send(context.Background(), Message{
		To: "a@b.com", Subject: "s", HTML: "<p>h</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp-1", res.MessageID)
}

func TestLifecycleTemplates(t *testing.T) {
	msg := verificationMessage("a@b.com", "Ada", "tok-1")
	assert.Equal(t, "a@b.com", msg.To)
	assert.Contains(t, msg.HTML, "tok-1")
	assert.Contains(t, msg.HTML, "24 hours")
	assert.Contains(t, msg.Text, "tok-1")
	assert.Equal(t, "verification", msg.Kind)

	msg = passwordResetMessage("a@b.com", "Ada", "tok-2")
	assert.Contains(t, msg.HTML, "tok-2")
	assert.Contains(t, msg.HTML, "1 hour")
	assert.Equal(t, "password-reset", msg.Kind)
}

func TestBuildMIME(t *testing.T) {
	payload := string(buildMIME("noreply@shopfolio.dev", "id-1", Message{
		To: "a@b.com", Subject: "Hi", HTML: "<p>Hello</p>",
	}))
	assert.Contains(t, payload, "To: a@b.com")
	assert.Contains(t, payload, "Subject: Hi")
	assert.Contains(t, payload, "multipart/alternative")
	assert.Contains(t, payload, "<p>Hello</p>")
	// Text part is derived from the HTML when absent.
	assert.Contains(t, payload, "Hello\r\n")
}

func TestVerifySMTPUnconfigured(t *testing.T) {
	diag := newService(config.Email{}).VerifySMTP(context.Background())
	assert.False(t, diag.OK)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", stripTags("<p>Hello <b>world</b></p>"))
}
