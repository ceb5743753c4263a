package twofactor

import (
	"errors"

	"github.com/dmitrymomot/authguard/pkg/secrets"
)

// GenerateBackupCodes returns Count distinct uppercase alphanumeric codes of
// Length characters together with their SHA-256 hex digests.
func (e *Engine) GenerateBackupCodes() (BackupCodes, error) {
	count := e.cfg.BackupCodes.Count
	out := BackupCodes{
		Codes:  make([]string, 0, count),
		Hashes: make([]string, 0, count),
	}
	seen := make(map[string]struct{}, count)

	// Short codes can collide; give up rather than spin forever.
	for tries := 0; len(out.Codes) < count; tries++ {
		if tries >= count*16 {
			return BackupCodes{}, errors.Join(ErrFailedToGenerateCodes, errors.New("code space exhausted"))
		}
		code, err := secrets.RandomString(e.cfg.BackupCodes.Length, secrets.AlphabetUpperAlphanumeric)
		if err != nil {
			return BackupCodes{}, errors.Join(ErrFailedToGenerateCodes, err)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out.Codes = append(out.Codes, code)
		out.Hashes = append(out.Hashes, secrets.SHA256Hex(code))
	}
	return out, nil
}

// VerifyBackupCode hashes input and looks it up in hashes. Every entry is
// compared so the time taken does not depend on the match position.
// It returns false and -1 when input is not present.
func (e *Engine) VerifyBackupCode(hashes []string, input string) (bool, int) {
	digest := secrets.SHA256Hex(input)
	idx := -1
	for i, h := range hashes {
		if secrets.CompareHash(h, digest) && idx < 0 {
			idx = i
		}
	}
	return idx >= 0, idx
}
