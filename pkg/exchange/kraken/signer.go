package kraken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"

	"krakensweep/pkg/core"
)

// ErrInvalidSecret is returned when the API secret is not standard base64.
// It matches core.ErrInvalidCredentials under errors.Is.
var ErrInvalidSecret = fmt.Errorf("%w: api secret is not valid base64", core.ErrInvalidCredentials)

// Signer computes API-Sign values for one decoded secret.
type Signer struct {
	key []byte
}

// NewSigner decodes the secret once so that a malformed one is rejected
// before any request is built.
func NewSigner(secret string) (*Signer, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return &Signer{key: key}, nil
}

// Sign returns base64(HMAC-SHA512(key, path + SHA256(nonce + body))).
// body must be the exact bytes that will be transmitted.
func (s *Signer) Sign(nonce, path, body string) string {
	digest := sha256.Sum256([]byte(nonce + body))

	mac := hmac.New(sha512.New, s.key)
	mac.Write([]byte(path))
	mac.Write(digest[:])

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Sign is the one-shot form of Signer.Sign.
func Sign(secret, nonce, path, body string) (string, error) {
	signer, err := NewSigner(secret)
	if err != nil {
		return "", err
	}
	return signer.Sign(nonce, path, body), nil
}
