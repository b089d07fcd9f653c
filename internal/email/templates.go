package email

import (
	"fmt"
	"os"
)

func appBaseURL() string {
	if v := os.Getenv("APP_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func verificationMessage(to, name, token string) Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", appBaseURL(), token)
	html := fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
<h2>Welcome to Shopfolio, %s!</h2>
<p>Please confirm your email address to activate your account.</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#4f46e5;color:#fff;border-radius:6px;text-decoration:none">Verify Email</a></p>
<p>This link expires in 24 hours. If you did not create an account, you can ignore this email.</p>
</div>`, name, link)
	text := fmt.Sprintf("Welcome to Shopfolio, %s!\n\nConfirm your email address by opening this link:\n%s\n\nThe link expires in 24 hours.", name, link)
	return Message{
		To:      to,
		Subject: "Verify your Shopfolio email",
		HTML:    html,
		Text:    text,
		Kind:    "verification",
	}
}

func passwordResetMessage(to, name, token string) Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", appBaseURL(), token)
	html := fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
<h2>Password reset</h2>
<p>Hi %s, we received a request to reset your Shopfolio password.</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#4f46e5;color:#fff;border-radius:6px;text-decoration:none">Reset Password</a></p>
<p>This link expires in 1 hour. If you did not request a reset, no action is needed.</p>
</div>`, name, link)
	text := fmt.Sprintf("Hi %s,\n\nReset your Shopfolio password by opening this link:\n%s\n\nThe link expires in 1 hour. If you did not request a reset, ignore this email.", name, link)
	return Message{
		To:      to,
		Subject: "Reset your Shopfolio password",
		HTML:    html,
		Text:    text,
		Kind:    "password-reset",
	}
}
