// Package identity owns the signed-in user for a storefront session: who is
// browsing, account sign-up/sign-in, and change notifications that drive
// cart and order reloads.
package identity

import "github.com/go-faster/errors"

// Sentinel errors for identity operations.
var (
	ErrNotAuthenticated   = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Identity is a snapshot of the signed-in user. Orders copy the id and
// username at creation time, so later profile edits never rewrite history.
type Identity struct {
	ID          string
	Username    string
	Email       string
	Address     string
	PhoneNumber string
	Admin       bool
}

// Provider supplies the current identity to components that only need to
// know who is acting, not how sign-in works.
type Provider interface {
	// Current returns the signed-in identity, or ok=false when anonymous.
	Current() (Identity, bool)
}

// Patch is a partial profile update. Nil fields are left untouched.
type Patch struct {
	Username    *string
	Address     *string
	PhoneNumber *string
}
