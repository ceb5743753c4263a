package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/authguard/pkg/email"
	"github.com/dmitrymomot/authguard/pkg/email/templates"
)

// Deliverer sends a single notification through some channel.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, n Notification) error

// Deliver implements Deliverer.
func (f DelivererFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type emailTemplate struct {
	subject string
	render  func(templates.SecurityNotice) templ.Component
}

var emailTemplates = map[Kind]emailTemplate{
	KindTwoFactorEnabled:       {"Two-factor authentication enabled", templates.TwoFactorEnabled},
	KindTwoFactorDisabled:      {"Two-factor authentication disabled", templates.TwoFactorDisabled},
	KindBackupCodesRegenerated: {"New backup codes generated", templates.BackupCodesRegenerated},
	KindTwoFactorLocked:        {"Too many failed verification attempts", templates.TwoFactorLocked},
}

// EmailDeliverer renders the template registered for a Kind and sends it.
type EmailDeliverer struct {
	sender       email.Sender
	appName      string
	supportEmail string
}

// NewEmailDeliverer returns a Deliverer sending through sender.
func NewEmailDeliverer(sender email.Sender, appName, supportEmail string) *EmailDeliverer {
	return &EmailDeliverer{sender: sender, appName: appName, supportEmail: supportEmail}
}

// Deliver implements Deliverer.
func (d *EmailDeliverer) Deliver(ctx context.Context, n Notification) error {
	tpl, ok := emailTemplates[n.Kind]
	if !ok {
		return errors.Join(ErrUnknownKind, fmt.Errorf("kind %q", n.Kind))
	}
	if n.To == "" {
		return ErrEmptyRecipient
	}

	notice := templates.SecurityNotice{
		AppName:      d.appName,
		Email:        n.To,
		OccurredAt:   n.CreatedAt,
		SupportEmail: d.supportEmail,
	}
	if v := n.Value(DataRetryAfter); v != "" {
		if retry, err := time.ParseDuration(v); err == nil {
			notice.RetryAfter = retry
		}
	}

	html, err := templates.Render(ctx, tpl.render(notice))
	if err != nil {
		return errors.Join(ErrFailedToDeliver, err)
	}
	if err := d.sender.Send(ctx, email.Params{
		SendTo:   n.To,
		Subject:  tpl.subject,
		BodyHTML: html,
		Tag:      string(n.Kind),
	}); err != nil {
		return errors.Join(ErrFailedToDeliver, err)
	}
	return nil
}
