// Package auth proves that a client-supplied signed payload was issued
// by the trusted launcher and has not been tampered with.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// signatureField is the reserved key carrying the payload signature.
const signatureField = "hash"

// derivationLabel is the fixed label hashed with the deployment secret
// to derive the per-deployment signing key.
const derivationLabel = "WebAppData"

// Verifier checks launcher-issued signed payloads against a shared
// secret. An empty secret disables verification entirely; this is the
// documented insecure-by-default escape hatch for local development.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given deployment secret.
// Pass an empty secret to accept every payload.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify reports whether payload carries a valid signature. It passes
// unconditionally when no secret is configured or no payload was
// supplied. Malformed payloads fail closed and never return an error
// to the caller. Pure function of its inputs.
func (v *Verifier) Verify(payload string) bool {
	if !v.Enabled() || payload == "" {
		return true
	}

	values, err := url.ParseQuery(payload)
	if err != nil {
		return false
	}
	submitted := values.Get(signatureField)
	if submitted == "" {
		return false
	}
	values.Del(signatureField)

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}
	checkString := strings.Join(lines, "\n")

	derived := hmac.New(sha256.New, []byte(derivationLabel))
	derived.Write(v.secret)

	mac := hmac.New(sha256.New, derived.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(submitted))
}

// Sign computes the signature for a set of payload fields. It exists so
// trusted tooling and tests can mint valid payloads; the serving path
// only ever verifies.
func (v *Verifier) Sign(fields url.Values) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == signatureField {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+fields.Get(key))
	}

	derived := hmac.New(sha256.New, []byte(derivationLabel))
	derived.Write(v.secret)

	mac := hmac.New(sha256.New, derived.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
