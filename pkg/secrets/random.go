package secrets

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// AlphabetAlphanumeric is used for opaque tokens.
	AlphabetAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// AlphabetUpperAlphanumeric is used for codes a human types back in.
	AlphabetUpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RandomString returns n characters drawn uniformly from alphabet.
// An empty alphabet falls back to AlphabetAlphanumeric.
func RandomString(n int, alphabet string) (string, error) {
	if n <= 0 {
		return "", nil
	}
	if alphabet == "" {
		alphabet = AlphabetAlphanumeric
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errors.Join(ErrFailedToGenerateRandom, err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
