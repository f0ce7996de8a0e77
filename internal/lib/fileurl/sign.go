// Package fileurl signs and verifies expiring links to uploaded files.
package fileurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign appends expiry and HMAC-SHA256 signature query parameters to path.
// The signature covers "{path}:{expiresUnix}".
func (s *Signer) Sign(path string) string {
	expires := s.now().Add(s.ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.compute(path, expires))
	return path + "?" + q.Encode()
}

// Verify checks that the signature matches path and has not expired.
func (s *Signer) Verify(path, expires, sig string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > exp {
		return false
	}
	expected := s.compute(path, exp)
	return hmac.Equal([]byte(sig), []byte(expected))
}

func (s *Signer) compute(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(fmt.Sprintf("%s:%d", path, expires)))
	return hex.EncodeToString(mac.Sum(nil))
}
