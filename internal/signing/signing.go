// Package signing issues and checks HMAC-signed, expiring download links for
// the development backend.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrExpired   = errors.New("url expired")
	ErrSignature = errors.New("invalid signature")
)

// Signer generates and validates download signatures.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer whose links live for ttl.
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl, now: time.Now}
}

// Sign returns the hex signature for a document name and expiry.
func (s *Signer) Sign(name string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", name, expiresUnix)
	return hex.EncodeToString(mac.Sum(nil))
}

// Query returns the file, expires and signature parameters for name.
func (s *Signer) Query(name string) url.Values {
	expires := s.now().Add(s.ttl).Unix()
	q := url.Values{}
	q.Set("file", name)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.Sign(name, expires))
	return q
}

// Verify checks parameters produced by Query and returns the document name.
func (s *Signer) Verify(q url.Values) (string, error) {
	name := q.Get("file")
	expires := q.Get("expires")
	signature := q.Get("signature")
	if name == "" || expires == "" || signature == "" {
		return "", errors.New("missing parameters")
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid expires: %w", err)
	}
	if time.Unix(exp, 0).Before(s.now()) {
		return "", ErrExpired
	}
	if !hmac.Equal([]byte(s.Sign(name, exp)), []byte(signature)) {
		return "", ErrSignature
	}
	return name, nil
}
