package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// IVSize is the size of the initialization vector in bytes.
	IVSize = 16

	// IVFormatHex is the only tag scheme currently produced.
	IVFormatHex = "hex"
)

// NewIVTag returns a random initialization vector in its tagged form,
// e.g. "hex:9f86d081884c7d659a2feaa0c55ad015".
func NewIVTag() (string, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", errors.Join(ErrFailedToGenerateIV, err)
	}
	return IVFormatHex + ":" + hex.EncodeToString(iv), nil
}

// ParseIVTag decodes a tagged initialization vector back to raw bytes.
func ParseIVTag(tag string) ([]byte, error) {
	format, value, ok := strings.Cut(tag, ":")
	if !ok {
		return nil, ErrInvalidIV
	}
	if format != IVFormatHex {
		return nil, ErrUnsupportedIVFormat
	}
	iv, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Join(ErrInvalidIV, err)
	}
	if len(iv) != IVSize {
		return nil, ErrInvalidIV
	}
	return iv, nil
}
