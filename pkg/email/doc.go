// Package email sends the transactional security emails produced by the
// two-factor lifecycle.
//
// Sender abstracts the provider. NewPostmarkSender delivers through Postmark,
// NewLogSender only logs a summary and NewDevSender writes each message to
// disk as HTML plus JSON metadata for local preview. Every implementation
// validates Params before doing any work.
//
// The templates subpackage holds templ components for each notification and
// Render, which turns a component into an HTML string:
//
//	html, err := templates.Render(ctx, templates.TwoFactorEnabled(notice))
//	if err != nil {
//	    return err
//	}
//	err = sender.Send(ctx, email.Params{
//	    SendTo:   "user@example.com",
//	    Subject:  "Two-factor authentication enabled",
//	    BodyHTML: html,
//	    Tag:      "two_factor.enabled",
//	})
//
// Errors wrap ErrInvalidConfig, ErrInvalidParams or ErrFailedToSendEmail.
package email
