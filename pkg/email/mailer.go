package email

import (
	"context"
	"errors"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, params Params) error
}

// Params represents the parameters for sending an email.
type Params struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"` // Postmark tag for analytics
}

// Validate checks that the recipient, subject and body are present.
func (p Params) Validate() error {
	switch {
	case p.SendTo == "":
		return errors.Join(ErrInvalidParams, errors.New("SendTo is required"))
	case !emailRegex.MatchString(p.SendTo):
		return errors.Join(ErrInvalidParams, errors.New("SendTo must be a valid email address"))
	case p.Subject == "":
		return errors.Join(ErrInvalidParams, errors.New("Subject is required"))
	case p.BodyHTML == "":
		return errors.Join(ErrInvalidParams, errors.New("BodyHTML is required"))
	}
	return nil
}

// ValidAddress reports whether s looks like an email address.
func ValidAddress(s string) bool {
	return emailRegex.MatchString(s)
}
