package session

import "errors"

var (
	// ErrInvalidCredentials is returned on a rejected email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound is returned when the backend knows no such account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountSuspended is returned for inactive or suspended accounts.
	ErrAccountSuspended = errors.New("account is not active or has been suspended")
	// ErrNoRefreshToken is returned by Refresh when the session holds no
	// refresh token; no network call is made.
	ErrNoRefreshToken = errors.New("no refresh token held")
	// ErrSessionExpired is returned when the backend definitively rejects the
	// refresh token. The session is cleared and expiry hooks run.
	ErrSessionExpired = errors.New("session expired")
)

// Definitive reports whether err rules out the current credentials/tokens,
// as opposed to a transient failure worth retrying.
func Definitive(err error) bool {
	switch err {
	case ErrInvalidCredentials, ErrAccountNotFound, ErrAccountSuspended, ErrNoRefreshToken, ErrSessionExpired:
		return true
	}
	return false
}
