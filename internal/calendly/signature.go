package calendly

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature.
const SignatureHeader = "Calendly-Webhook-Signature"

// DefaultSignatureTolerance bounds the age of a signed webhook.
const DefaultSignatureTolerance = 3 * time.Minute

var (
	ErrSignatureMissing   = errors.New("calendly: webhook signature missing")
	ErrSignatureMalformed = errors.New("calendly: webhook signature malformed")
	ErrSignatureMismatch  = errors.New("calendly: webhook signature mismatch")
	ErrSignatureExpired   = errors.New("calendly: webhook signature expired")
)

// Verifier checks webhook signatures of the form "t=<unix>,v1=<hex>", where
// v1 is HMAC-SHA256 over "<t>.<body>" keyed with the signing key.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier returns nil when key is empty; a nil Verifier accepts everything.
func NewVerifier(key string, tolerance time.Duration) *Verifier {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultSignatureTolerance
	}
	return &Verifier{key: []byte(key), tolerance: tolerance, now: time.Now}
}

// Enabled reports whether signatures are checked.
func (v *Verifier) Enabled() bool {
	return v != nil
}

// Verify checks header against body.
func (v *Verifier) Verify(header string, body []byte) error {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(header) == "" {
		return ErrSignatureMissing
	}
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = val
		case "v1":
			sig = val
		}
	}
	if ts == "" || sig == "" {
		return ErrSignatureMalformed
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrSignatureMalformed
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrSignatureMalformed
	}
	if !hmac.Equal(got, v.sign(ts, body)) {
		return ErrSignatureMismatch
	}
	age := v.now().Sub(time.Unix(unix, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrSignatureExpired
	}
	return nil
}

func (v *Verifier) sign(ts string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// Sign produces a header value for body at t. Used by tests and sitectl.
func (v *Verifier) Sign(body []byte, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(v.sign(ts, body))
}
