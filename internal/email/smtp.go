package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopfolio/internal/platform/config"
)

func sendWithSMTP(ctx context.Context, cfg config.Email, msg Message) (string, error) {
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	id := uuid.NewString()

	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	payload := buildMIME(cfg.FromEmail, id, msg)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, cfg.FromEmail, []string{msg.To}, payload)
	}()
	select {
	case err := <-done:
		if err != nil {
			return "", err
		}
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// buildMIME renders a multipart/alternative body so clients lacking HTML
// rendering still get the text part.
func buildMIME(from, id string, msg Message) []byte {
	boundary := "shopfolio-" + id
	text := msg.Text
	if text == "" {
		text = stripTags(msg.HTML)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s@shopfolio>\r\n", id)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// SMTPDiagnostics reports a connection probe against the configured relay.
type SMTPDiagnostics struct {
	OK     bool   `json:"ok"`
	Host   string `json:"host,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// VerifySMTP dials the configured SMTP relay and performs the greeting
// handshake without sending anything.
func (s *Service) VerifySMTP(ctx context.Context) SMTPDiagnostics {
	if s.cfg.SMTPHost == "" {
		return SMTPDiagnostics{OK: false, Detail: "smtp is not configured"}
	}
	addr := net.JoinHostPort(s.cfg.SMTPHost, strconv.Itoa(s.cfg.SMTPPort))

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return SMTPDiagnostics{OK: false, Host: addr, Detail: err.Error()}
	}
	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return SMTPDiagnostics{OK: false, Host: addr, Detail: err.Error()}
	}
	defer client.Close()
	if err := client.Hello("shopfolio"); err != nil {
		return SMTPDiagnostics{OK: false, Host: addr, Detail: err.Error()}
	}
	return SMTPDiagnostics{OK: true, Host: addr}
}
