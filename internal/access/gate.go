// Package access decides whether a session may see a role-protected surface.
package access

import (
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
)

type Outcome int

const (
	// Granted renders the surface.
	Granted Outcome = iota
	// Pending means the profile is still being resolved.
	Pending
	// Blocked means resolution failed. The caller is neither anonymous nor a patient.
	Blocked
	// RedirectLogin sends an anonymous caller to the login surface of the role.
	RedirectLogin
	// RedirectUnauthorized sends a caller with the wrong role away.
	RedirectUnauthorized
)

// UnauthorizedPath is where callers without the required role are sent.
const UnauthorizedPath = "/unauthorized"

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Pending:
		return "pending"
	case Blocked:
		return "blocked"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	}
	return "unknown"
}

type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide applies the gate to a snapshot.
func Decide(snap session.Snapshot, required entity.Role) Decision {
	switch {
	case !snap.Authenticated():
		return Decision{Outcome: RedirectLogin, Location: required.LoginPath()}
	case snap.Loading:
		return Decision{Outcome: Pending}
	case snap.Err != nil || snap.Profile == nil:
		return Decision{Outcome: Blocked}
	case snap.Profile.Role != required:
		return Decision{Outcome: RedirectUnauthorized, Location: UnauthorizedPath}
	}
	return Decision{Outcome: Granted}
}
