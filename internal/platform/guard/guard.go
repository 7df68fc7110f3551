// Package guard implements the shared-PIN check that gates destructive
// transitions: event check-out and permanent record deletion.
package guard

import (
	"crypto/subtle"
	"errors"
)

// ErrPINMismatch is returned when a supplied PIN does not match the
// configured secret. The caller's state must be left untouched; retries are
// allowed without limit.
var ErrPINMismatch = errors.New("invalid PIN")

// PIN is the fixed shared secret. There is no per-user identity behind it;
// the audit trail is the transition timestamps only.
type PIN string

// Verify compares the supplied value against the secret in constant time.
func (p PIN) Verify(supplied string) error {
	if subtle.ConstantTimeCompare([]byte(p), []byte(supplied)) != 1 {
		return ErrPINMismatch
	}
	return nil
}
