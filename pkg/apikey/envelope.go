package apikey

import "time"

// Envelope is the plaintext carried inside an encrypted api key token.
type Envelope struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Hash      string `json:"hash"`
}

// Time returns the envelope timestamp.
func (e Envelope) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

func (e Envelope) complete() bool {
	return e.Key != "" && e.Hash != "" && e.Timestamp > 0
}
