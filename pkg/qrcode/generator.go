package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent           = errors.New("content cannot be empty")
	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
	ErrInvalidRecoveryLevel   = errors.New("invalid QR code recovery level")
)

// DefaultSize is the image width and height in pixels when no size is given.
const DefaultSize = 256

// RecoveryLevel is the amount of error correction data in the image.
type RecoveryLevel = skipqrcode.RecoveryLevel

const (
	Low     = skipqrcode.Low     // 7%
	Medium  = skipqrcode.Medium  // 15%
	High    = skipqrcode.High    // 25%
	Highest = skipqrcode.Highest // 30%
)

type options struct {
	size     int
	level    RecoveryLevel
	noBorder bool
}

// Option customises the generated image.
type Option func(*options)

// WithSize sets the image size in pixels. Non-positive values keep the default.
func WithSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.size = px
		}
	}
}

// WithRecoveryLevel sets the error correction level.
func WithRecoveryLevel(level RecoveryLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithoutBorder drops the quiet zone around the code.
func WithoutBorder() Option {
	return func(o *options) {
		o.noBorder = true
	}
}

// Generate returns a PNG image encoding content.
func Generate(content string, opts ...Option) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	o := options{size: DefaultSize, level: Medium}
	for _, opt := range opts {
		opt(&o)
	}
	if o.level < Low || o.level > Highest {
		return nil, ErrInvalidRecoveryLevel
	}

	qr, err := skipqrcode.New(content, o.level)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	qr.DisableBorder = o.noBorder

	png, err := qr.PNG(o.size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// DataURI returns the PNG as a data URI ready for an <img src> attribute.
// Enrolment pages use it to show the otpauth:// key URI without a second request.
func DataURI(content string, opts ...Option) (string, error) {
	png, err := Generate(content, opts...)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
