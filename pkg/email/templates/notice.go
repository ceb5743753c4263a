package templates

import (
	"fmt"
	"time"

	"github.com/a-h/templ"
)

// SecurityNotice is the data shared by the two-factor notification emails.
type SecurityNotice struct {
	AppName      string
	Email        string
	OccurredAt   time.Time
	RetryAfter   time.Duration // set for lockout notices
	SupportEmail string
}

// When formats the event time for display.
func (n SecurityNotice) When() string {
	return n.OccurredAt.UTC().Format(time.RFC1123)
}

// SupportURL returns the mailto link for the support address.
func (n SecurityNotice) SupportURL() templ.SafeURL {
	return templ.URL("mailto:" + n.SupportEmail)
}

func enabledMessage(n SecurityNotice) string {
	return fmt.Sprintf("Two-factor authentication is now active on your %s account. Keep your backup codes somewhere safe.", n.AppName)
}

func disabledMessage(n SecurityNotice) string {
	return fmt.Sprintf("Two-factor authentication was removed from your %s account.", n.AppName)
}

func lockedMessage(n SecurityNotice) string {
	msg := "Two-factor verification was locked after repeated failed attempts."
	if n.RetryAfter > 0 {
		msg = fmt.Sprintf("%s You can try again in %s.", msg, n.RetryAfter.Round(time.Second))
	}
	return msg
}
