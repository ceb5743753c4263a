package email

// Config holds email delivery settings.
// Postmark tokens are optional so development can run with the log or dev sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@authguard.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@authguard.local"`
	DevDir               string `env:"EMAIL_DEV_DIR"` // when set, development mail is written here
}

// UsePostmark reports whether a Postmark server token is configured.
func (c Config) UsePostmark() bool {
	return c.PostmarkServerToken != ""
}
