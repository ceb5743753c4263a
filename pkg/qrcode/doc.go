// Package qrcode renders QR code images as PNG bytes or as data URIs that can
// be embedded in HTML. It wraps github.com/skip2/go-qrcode with input
// validation and functional options.
//
// The two-factor enrolment flow encodes the otpauth:// key URI:
//
//	uri, err := qrcode.DataURI(setup.OtpauthURL, qrcode.WithSize(240))
//	if err != nil {
//	    return err
//	}
//	// <img src="{{ uri }}">
//
// Empty content returns ErrEmptyContent; encoder failures wrap
// ErrFailedToGenerateQRCode.
package qrcode
